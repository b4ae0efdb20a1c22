package agentreport

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-agentreport/internal/dom"
)

// Inline image directive: the literal IMAGE: token is case-sensitive and
// the description is any run of characters without a closing bracket.
var imageDirective = regexp.MustCompile(`\[IMAGE:([^\]]*)\]`)

// Placeholder node classes.
const (
	placeholderClass   = "image-placeholder"
	failedImageClass   = "image-failed"
	resolvedImageClass = "resolved-image"
)

// imageOutcome is one resolution response, correlated purely by id.
type imageOutcome struct {
	id          string
	description string
	source      string
	err         error
}

// Resolver replaces [IMAGE: description] directives with uniquely
// identified placeholder nodes and resolves them asynchronously. The
// placeholder's original position is never captured: at resolution time
// the target is looked up by id in the current tree, so a placeholder
// removed by a re-render makes its late response a silent no-op.
type Resolver struct {
	searcher ImageSearcher
	timeout  time.Duration
	results  chan imageOutcome
	done     chan struct{}
	pending  atomic.Int64
	seq      atomic.Uint64
}

// NewResolver creates a Resolver dispatching to the given searcher.
func NewResolver(searcher ImageSearcher, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}
	return &Resolver{
		searcher: searcher,
		timeout:  timeout,
		results:  make(chan imageOutcome, 64),
		done:     make(chan struct{}),
	}
}

// Scan walks text nodes under root, replaces every image directive with
// a placeholder node and schedules its resolution. Text inside already
// generated markup and code blocks is skipped. Returns the number of
// placeholders created.
func (r *Resolver) Scan(root *html.Node) int {
	var candidates []*html.Node
	dom.Walk(root, func(n *html.Node) bool {
		if skipDirectiveScan(n) {
			return false
		}
		if n.Type == html.TextNode && strings.Contains(n.Data, "[IMAGE:") {
			candidates = append(candidates, n)
		}
		return true
	})

	created := 0
	for _, text := range candidates {
		created += r.replaceDirectives(text)
	}
	return created
}

// skipDirectiveScan reports whether a subtree must not be scanned for
// directives: generated placeholder/viewer markup and literal code.
func skipDirectiveScan(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if dom.IsElement(n, atom.Pre) || dom.IsElement(n, atom.Code) {
		return true
	}
	for _, class := range []string{placeholderClass, failedImageClass, "screenshot-container"} {
		if dom.HasClass(n, class) {
			return true
		}
	}
	return false
}

// replaceDirectives splits one text node around its directives and
// splices in placeholder nodes.
func (r *Resolver) replaceDirectives(text *html.Node) int {
	matches := imageDirective.FindAllStringSubmatchIndex(text.Data, -1)
	if len(matches) == 0 {
		return 0
	}

	parent := text.Parent
	if parent == nil {
		return 0
	}

	last := 0
	created := 0
	for _, m := range matches {
		if m[0] > last {
			dom.InsertBefore(dom.TextNode(text.Data[last:m[0]]), text)
		}
		description := trimDirectiveSpace(text.Data[m[2]:m[3]])
		dom.InsertBefore(r.newPlaceholder(description), text)
		created++
		last = m[1]
	}
	if last < len(text.Data) {
		dom.InsertBefore(dom.TextNode(text.Data[last:]), text)
	}
	dom.Detach(text)
	return created
}

// trimDirectiveSpace removes exactly one optional leading and trailing
// space from a directive description, per the directive syntax.
func trimDirectiveSpace(s string) string {
	s = strings.TrimPrefix(s, " ")
	return strings.TrimSuffix(s, " ")
}

// newPlaceholder builds a placeholder node and schedules its resolution.
func (r *Resolver) newPlaceholder(description string) *html.Node {
	// Composite id: monotonic sequence plus random suffix, unique for the
	// document's lifetime even across resolver restarts.
	id := fmt.Sprintf("ph-%d-%s", r.seq.Add(1), uuid.NewString())

	span := dom.Element("span",
		"class", placeholderClass,
		"data-ph-id", id,
		"data-description", description,
	)
	dom.Append(span, dom.TextNode("Loading image…"))

	if r.searcher != nil {
		r.schedule(id, description)
	}
	return span
}

// schedule dispatches one search on its own goroutine. The response is
// delivered through the results channel, never synchronously.
func (r *Resolver) schedule(id, description string) {
	r.pending.Add(1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		img, err := r.searcher.Search(ctx, description)
		select {
		case r.results <- imageOutcome{id: id, description: description, source: img.Source, err: err}:
		case <-r.done:
		}
	}()
}

// Results returns the resolution response channel consumed by the watcher.
func (r *Resolver) Results() <-chan imageOutcome {
	return r.results
}

// Pending returns the number of scheduled, not yet applied resolutions.
func (r *Resolver) Pending() int64 {
	return r.pending.Load()
}

// Apply splices one resolution response into the tree, reporting
// whether it changed anything. The target is found by id; a missing id
// means the placeholder was removed in the meantime and the response is
// dropped without effect.
func (r *Resolver) Apply(root *html.Node, outcome imageOutcome) bool {
	r.pending.Add(-1)

	target := dom.FindByAttr(root, "data-ph-id", outcome.id)
	if target == nil {
		return false // stale response; expected under re-renders
	}

	var replacement *html.Node
	if outcome.err != nil {
		replacement = dom.Element("span", "class", failedImageClass)
		dom.Append(replacement, dom.TextNode("Image unavailable: "+outcome.description))
	} else {
		replacement = dom.Element("img",
			"class", resolvedImageClass,
			"src", outcome.source,
			"alt", outcome.description,
		)
	}

	dom.InsertBefore(replacement, target)
	dom.Detach(target)
	return true
}

// close stops accepting late responses; in-flight goroutines unblock.
func (r *Resolver) close() {
	close(r.done)
}

// Placeholders lists the pending placeholders currently in the tree.
func Placeholders(root *html.Node) []Placeholder {
	var out []Placeholder
	for _, n := range dom.FindAll(root, func(n *html.Node) bool { return dom.HasClass(n, placeholderClass) }) {
		id, _ := dom.Attr(n, "data-ph-id")
		description, _ := dom.Attr(n, "data-description")
		out = append(out, Placeholder{ID: id, Description: description, State: PlaceholderPending})
	}
	return out
}
