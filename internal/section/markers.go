package section

import "golang.org/x/net/html"

// Markers is the processed-node side table. Once a node is stamped for a
// kind it is never re-entered by that kind's transformer; replacement
// subtrees start unstamped. Kept outside node attributes so rendered
// markup stays clean.
type Markers struct {
	marks map[*html.Node]uint16
}

// NewMarkers creates an empty side table.
func NewMarkers() *Markers {
	return &Markers{marks: make(map[*html.Node]uint16)}
}

// Processed reports whether n was already handled by kind k.
func (m *Markers) Processed(n *html.Node, k Kind) bool {
	return m.marks[n]&(1<<uint(k)) != 0
}

// Mark stamps n as handled by kind k. Monotonic; there is no unmark.
func (m *Markers) Mark(n *html.Node, k Kind) {
	m.marks[n] |= 1 << uint(k)
}

// Len returns the number of tracked nodes.
func (m *Markers) Len() int {
	return len(m.marks)
}

// Prune drops entries for nodes no longer attached under root, so the
// table does not grow with every re-rendered report.
func (m *Markers) Prune(root *html.Node) {
	for n := range m.marks {
		attached := false
		for p := n; p != nil; p = p.Parent {
			if p == root {
				attached = true
				break
			}
		}
		if !attached {
			delete(m.marks, n)
		}
	}
}
