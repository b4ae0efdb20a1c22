package agentreport

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/html"

	"github.com/alnah/go-agentreport/internal/dom"
	"github.com/alnah/go-agentreport/internal/section"
)

// defaultPollInterval is the fallback cadence for the safety-net pass
// run when no change signal arrived.
const defaultPollInterval = 2 * time.Second

// WatcherOption customizes a Watcher.
type WatcherOption func(*watcherConfig)

type watcherConfig struct {
	logger        *slog.Logger
	interval      time.Duration
	searcher      ImageSearcher
	searchTimeout time.Duration
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(c *watcherConfig) { c.logger = l }
}

// WithPollInterval sets the fallback poll cadence. Panics on d <= 0 to
// surface the misconfiguration at construction time.
func WithPollInterval(d time.Duration) WatcherOption {
	if d <= 0 {
		panic("agentreport: poll interval must be positive")
	}
	return func(c *watcherConfig) { c.interval = d }
}

// WithImageSearcher enables asynchronous [IMAGE: ...] resolution. Without
// a searcher, directives still become placeholder nodes but stay pending.
func WithImageSearcher(s ImageSearcher) WatcherOption {
	return func(c *watcherConfig) { c.searcher = s }
}

// WithSearchTimeout bounds a single image search.
func WithSearchTimeout(d time.Duration) WatcherOption {
	if d <= 0 {
		panic("agentreport: search timeout must be positive")
	}
	return func(c *watcherConfig) { c.searchTimeout = d }
}

// Watcher drives the idempotent transformation loop over a Document: it
// reacts to structural changes, re-applies the section transformers, and
// splices in image resolutions as they arrive. All tree mutation happens
// on the watcher's goroutine through Document.Mutate, so transformers
// never race with appends.
type Watcher struct {
	doc      *Document
	resolver *Resolver
	logger   *slog.Logger
	interval time.Duration
	marks    *section.Markers

	done      chan struct{}
	stopped   chan struct{}
	running   atomic.Bool
	closeOnce sync.Once
}

// NewWatcher creates a Watcher over doc. Call Run on its own goroutine
// for continuous operation, or ProcessOnce for a bounded synchronous pass.
func NewWatcher(doc *Document, opts ...WatcherOption) *Watcher {
	cfg := watcherConfig{
		logger:        slog.Default(),
		interval:      defaultPollInterval,
		searchTimeout: defaultSearchTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Watcher{
		doc:      doc,
		resolver: NewResolver(cfg.searcher, cfg.searchTimeout),
		logger:   cfg.logger,
		interval: cfg.interval,
		marks:    section.NewMarkers(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Run processes the document until Close. It blocks; start it with go.
func (w *Watcher) Run() {
	w.running.Store(true)
	defer close(w.stopped)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Initial pass covers content appended before Run started.
	w.pass()

	for {
		select {
		case <-w.done:
			return
		case <-w.doc.Changes():
			w.pass()
		case <-ticker.C:
			w.pass()
		case outcome := <-w.resolver.Results():
			w.applyOutcome(outcome)
		}
	}
}

// Close stops the watcher and releases in-flight resolution goroutines.
// Safe to call more than once.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.resolver.close()
	})
	if w.running.Load() {
		<-w.stopped
	}
	return nil
}

// ProcessOnce runs a single transformation pass and then waits for every
// scheduled image resolution to land, bounded by ctx. Used by batch
// callers that need a settled document rather than a live loop.
func (w *Watcher) ProcessOnce(ctx context.Context) error {
	w.pass()

	for w.resolver.Pending() > 0 {
		select {
		case outcome := <-w.resolver.Results():
			w.applyOutcome(outcome)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Pending reports scheduled image resolutions not yet applied.
func (w *Watcher) Pending() int64 {
	return w.resolver.Pending()
}

// pass runs every transformer over the current tree. Each report
// container is handled independently so one malformed section cannot
// block the rest. The updated broadcast fires only when the pass
// actually changed something, so idle ticker passes stay silent.
func (w *Watcher) pass() {
	changed := 0
	w.doc.Mutate(func(root *html.Node) {
		containers := dom.FindAll(root, func(n *html.Node) bool {
			return dom.HasClass(n, ReportContainerClass)
		})
		for _, c := range containers {
			n, errs := section.Apply(c, w.marks)
			changed += n
			for _, err := range errs {
				w.logger.Warn("section transform failed", "error", err)
			}
		}

		if n := w.resolver.Scan(root); n > 0 {
			w.logger.Debug("scheduled image resolutions", "count", n)
			changed += n
		}

		// Drop marks for nodes the transformers replaced; the table must
		// not grow with the document's revision history.
		w.marks.Prune(root)
	})

	if changed > 0 {
		notify(w.doc.updated)
	}
}

// applyOutcome splices one image resolution into the tree.
func (w *Watcher) applyOutcome(outcome imageOutcome) {
	if outcome.err != nil {
		w.logger.Warn("image search failed",
			"description", outcome.description, "error", outcome.err)
	}

	applied := false
	w.doc.Mutate(func(root *html.Node) {
		applied = w.resolver.Apply(root, outcome)
	})

	if applied {
		notify(w.doc.updated)
	}
}
