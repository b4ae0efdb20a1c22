package agentreport

import (
	"fmt"
	"sync"

	"golang.org/x/net/html"

	"github.com/alnah/go-agentreport/internal/dom"
)

// Document is the host tree the pipeline renders into. It owns every
// node; the watcher and resolver only hold references inside a Mutate
// callback. Mutations are serialized by the internal lock, which stands
// in for the single-threaded event loop of a browser host.
//
// Two signals are exposed: Changes wakes the watcher whenever the tree
// gains content, Updated is the downstream "content updated" broadcast
// fired after each batch has been fully inserted. Both signals coalesce;
// a slow consumer sees at least one notification per burst.
type Document struct {
	mu      sync.Mutex
	root    *html.Node
	changes chan struct{}
	updated chan struct{}
}

// NewDocument creates an empty host document.
func NewDocument() *Document {
	return &Document{
		root:    dom.Element("div", "id", "report-root"),
		changes: make(chan struct{}, 1),
		updated: make(chan struct{}, 1),
	}
}

// AppendMarkup parses markup and appends the resulting nodes under the
// document root as one batch, then fires both signals.
func (d *Document) AppendMarkup(markup string) error {
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarkupParse, err)
	}

	d.mu.Lock()
	for _, n := range nodes {
		d.root.AppendChild(n)
	}
	d.mu.Unlock()

	notify(d.changes)
	notify(d.updated)
	return nil
}

// Replace swaps the whole document content for markup in one locked
// step, so no reader observes the intermediate empty tree. Fires both
// signals.
func (d *Document) Replace(markup string) error {
	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMarkupParse, err)
	}

	d.mu.Lock()
	for c := d.root.FirstChild; c != nil; c = d.root.FirstChild {
		d.root.RemoveChild(c)
	}
	for _, n := range nodes {
		d.root.AppendChild(n)
	}
	d.mu.Unlock()

	notify(d.changes)
	notify(d.updated)
	return nil
}

// Clear removes all content, e.g. when a newer report replaces the
// current one. Fires the change signal so the watcher can prune its
// marker table.
func (d *Document) Clear() {
	d.mu.Lock()
	for c := d.root.FirstChild; c != nil; c = d.root.FirstChild {
		d.root.RemoveChild(c)
	}
	d.mu.Unlock()

	notify(d.changes)
}

// Mutate runs fn with exclusive access to the document root. All tree
// reads and writes outside the Document's own methods must go through
// here; fn must not retain the root past its return.
func (d *Document) Mutate(fn func(root *html.Node)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.root)
}

// Changes returns the structural-change signal consumed by the watcher.
func (d *Document) Changes() <-chan struct{} {
	return d.changes
}

// Updated returns the "content updated" broadcast for presentation code.
func (d *Document) Updated() <-chan struct{} {
	return d.updated
}

// HTML serializes the current document content.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return dom.RenderChildren(d.root)
}

// notify delivers a coalescing signal: if the channel already holds an
// undelivered notification, the new one folds into it.
func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
