// Package section detects heading-delimited report sections and rewrites
// them into styled widget subtrees: provider comparisons, option cards,
// booking-link grids and screenshot viewers.
//
// Detection is data-driven: a fixed heading-text table maps to a section
// kind, and extraction walks forward siblings until a stop tag. Matching is
// case-sensitive and exact after whitespace trimming; upstream generators
// emit these labels verbatim.
package section

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-agentreport/internal/dom"
)

// Kind identifies a recognized section flavor.
type Kind int

// Section kinds, in detection order. KindUnknown means no transformer applies.
const (
	KindUnknown Kind = iota
	KindPriceComparison
	KindBestValue
	KindLowestPrice
	KindAllOptions
	KindBookingLinks
	KindScreenshot
)

// String returns the kind name for logs and test failures.
func (k Kind) String() string {
	switch k {
	case KindPriceComparison:
		return "price-comparison"
	case KindBestValue:
		return "best-value"
	case KindLowestPrice:
		return "lowest-price"
	case KindAllOptions:
		return "all-options"
	case KindBookingLinks:
		return "booking-links"
	case KindScreenshot:
		return "screenshot"
	}
	return "unknown"
}

// headingKinds is the declarative heading-text grammar. Keys are the exact,
// trimmed heading texts produced by the upstream agent.
var headingKinds = map[string]Kind{
	"Price Comparison":      KindPriceComparison,
	"Best Value Option":     KindBestValue,
	"Lowest Price Option":   KindLowestPrice,
	"All Available Options": KindAllOptions,
	"Booking Links":         KindBookingLinks,
}

// KindOf classifies a heading node by its trimmed text content.
// Non-heading nodes and unrecognized texts map to KindUnknown.
func KindOf(n *html.Node) Kind {
	if dom.HeadingLevel(n) == 0 {
		return KindUnknown
	}
	if k, ok := headingKinds[dom.Text(n)]; ok {
		return k
	}
	return KindUnknown
}

// StopSet is the set of element tags that terminate a section body.
type StopSet map[atom.Atom]struct{}

// Stop sets for the two extraction depths used by the transformers:
// top-level sections end at the next h1/h2, option sub-bodies also at h3.
var (
	SectionStops = StopSet{atom.H1: {}, atom.H2: {}}
	OptionStops  = StopSet{atom.H1: {}, atom.H2: {}, atom.H3: {}}
)

// Extract returns the ordered sibling nodes following start (exclusive)
// up to, but not including, the first element whose tag is in stop.
// Nothing is mutated; absence of siblings yields an empty slice.
func Extract(start *html.Node, stop StopSet) []*html.Node {
	var body []*html.Node
	for s := start.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			if _, halt := stop[s.DataAtom]; halt {
				break
			}
		}
		body = append(body, s)
	}
	return body
}
