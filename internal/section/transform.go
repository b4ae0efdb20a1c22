package section

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-agentreport/internal/dom"
)

// OptionCard is one selectable result inside an "All Available Options"
// grid: its title heading, the price pulled into a dedicated slot, and
// the remaining label/value details.
type OptionCard struct {
	Title   string
	Price   string
	Details []Field
}

// ValueOptionParams parameterizes the highlight-option transformer for
// its two callers ("Best Value Option" vs "Lowest Price Option").
type ValueOptionParams struct {
	ClassName string
	LabelText string
}

// Parameter sets for the two highlight-option section kinds.
var (
	BestValueParams   = ValueOptionParams{ClassName: "best-value", LabelText: "Best Value"}
	LowestPriceParams = ValueOptionParams{ClassName: "lowest-price", LabelText: "Lowest Price"}
)

// Swap atomically replaces a section: the fully built replacement is
// inserted before heading, then heading and every body node are removed.
// The tree never holds a half-replaced section.
func Swap(replacement, heading *html.Node, body []*html.Node) {
	dom.InsertBefore(replacement, heading)
	dom.Detach(heading)
	for _, n := range body {
		dom.Detach(n)
	}
}

// fieldRow builds a label/value pair element. Price fields get the
// emphasized value styling.
func fieldRow(class string, f Field) *html.Node {
	row := dom.Element("div", "class", class)
	label := dom.Element("span", "class", "field-label")
	dom.Append(label, dom.TextNode(f.Label))

	valueClass := "field-value"
	if f.Variant() == VariantPrice {
		valueClass = "field-value price"
	}
	value := dom.Element("span", "class", valueClass)
	dom.Append(value, dom.TextNode(f.Value))

	dom.Append(row, label, value)
	return row
}

// TransformPriceComparison builds the replacement subtree for a "Price
// Comparison" section. Provider lines explode into individual tags, a
// price-range line becomes a labeled value, everything else is copied
// unchanged.
func TransformPriceComparison(heading *html.Node, body []*html.Node) *html.Node {
	container := dom.Element("div", "class", "price-comparison")
	title := dom.Element("div", "class", "section-title")
	dom.Append(title, dom.TextNode(dom.Text(heading)))
	dom.Append(container, title)

	for _, n := range body {
		if n.Type != html.ElementNode {
			continue
		}

		f, ok := ParseField(dom.Text(n))
		if !ok {
			dom.Append(container, dom.Clone(n))
			continue
		}

		switch f.Variant() {
		case VariantProviders:
			tags := dom.Element("div", "class", "provider-tags")
			for _, name := range strings.Split(f.Value, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				tag := dom.Element("span", "class", "provider-tag")
				dom.Append(tag, dom.TextNode(name))
				dom.Append(tags, tag)
			}
			dom.Append(container, tags)
		case VariantPriceRange:
			dom.Append(container, fieldRow("price-range", f))
		default:
			dom.Append(container, dom.Clone(n))
		}
	}
	return container
}

// TransformValueOption builds the replacement for a highlighted single
// option ("Best Value Option" / "Lowest Price Option"): a banner label,
// then one row per parsed field. Non-field nodes are copied unchanged.
func TransformValueOption(heading *html.Node, body []*html.Node, params ValueOptionParams) *html.Node {
	container := dom.Element("div", "class", "option-highlight "+params.ClassName)
	banner := dom.Element("div", "class", "option-banner")
	dom.Append(banner, dom.TextNode(params.LabelText))
	dom.Append(container, banner)

	for _, n := range body {
		if n.Type != html.ElementNode {
			continue
		}
		if f, ok := ParseField(dom.Text(n)); ok {
			dom.Append(container, fieldRow("option-field", f))
		} else {
			dom.Append(container, dom.Clone(n))
		}
	}
	return container
}

// TransformOptionsGrid builds an option-card grid from every h3 heading
// inside an "All Available Options" section. A "Price" field moves into
// the card's price slot; other colon-bearing lines become detail rows.
func TransformOptionsGrid(heading *html.Node, body []*html.Node) *html.Node {
	grid := dom.Element("div", "class", "options-grid")

	for _, n := range body {
		if !dom.IsElement(n, atom.H3) {
			continue
		}
		card := buildOptionCard(n)

		el := dom.Element("div", "class", "option-card")
		title := dom.Element("div", "class", "option-title")
		dom.Append(title, dom.TextNode(card.Title))
		dom.Append(el, title)

		if card.Price != "" {
			price := dom.Element("div", "class", "option-price")
			dom.Append(price, dom.TextNode(card.Price))
			dom.Append(el, price)
		}
		for _, f := range card.Details {
			dom.Append(el, fieldRow("option-detail", f))
		}
		dom.Append(grid, el)
	}
	return grid
}

// buildOptionCard extracts one card from an h3 heading and its sub-body.
func buildOptionCard(h3 *html.Node) OptionCard {
	card := OptionCard{Title: dom.Text(h3)}
	for _, n := range Extract(h3, OptionStops) {
		if n.Type != html.ElementNode {
			continue
		}
		f, ok := ParseField(dom.Text(n))
		if !ok {
			continue
		}
		if card.Price == "" && f.Variant() == VariantPrice {
			card.Price = f.Value
			continue
		}
		card.Details = append(card.Details, f)
	}
	return card
}

// TransformBookingLinks re-emits every link of the section's first list
// as a new-tab tile in a grid. Returns nil when the section holds no
// list node; the caller leaves such sections untouched.
func TransformBookingLinks(heading *html.Node, body []*html.Node) *html.Node {
	var list *html.Node
	for _, n := range body {
		if dom.IsElement(n, atom.Ul) || dom.IsElement(n, atom.Ol) {
			list = n
			break
		}
	}
	if list == nil {
		return nil
	}

	grid := dom.Element("div", "class", "booking-links-grid")
	for _, a := range dom.FindAll(list, func(n *html.Node) bool { return dom.IsElement(n, atom.A) }) {
		href, _ := dom.Attr(a, "href")
		tile := dom.Element("a",
			"class", "booking-link",
			"href", href,
			"target", "_blank",
			"rel", "noopener noreferrer",
		)
		dom.Append(tile, dom.TextNode(dom.Text(a)))
		dom.Append(grid, tile)
	}
	return grid
}

// Apply runs one full detection-and-transform pass over a report
// container and reports how many nodes it changed. Each section is
// handled in its own recover scope so one failing transformer cannot
// stop the rest of the pass. Safe to call repeatedly on an unchanged
// tree: transformed sections no longer match the heading table, and the
// marker table blocks re-entry everywhere structural detection alone is
// not enough.
func Apply(container *html.Node, marks *Markers) (int, []error) {
	var (
		changed int
		errs    []error
	)

	headings := dom.FindAll(container, func(n *html.Node) bool {
		return dom.HeadingLevel(n) == 2 && KindOf(n) != KindUnknown
	})

	for _, heading := range headings {
		kind := KindOf(heading)
		if marks.Processed(heading, kind) {
			continue
		}
		swapped, err := transformSection(heading, kind, marks)
		if err != nil {
			errs = append(errs, err)
		}
		if swapped {
			changed++
		}
	}

	wrapped, shotErrs := applyScreenshots(container, marks)
	changed += wrapped
	errs = append(errs, shotErrs...)
	changed += StripOrphanCaptions(container)
	return changed, errs
}

// transformSection dispatches one heading to its transformer inside a
// recover scope. A section the transformer declines (no list to turn
// into a grid yet) is left unstamped so a later pass can pick up
// content appended under the same heading.
func transformSection(heading *html.Node, kind Kind, marks *Markers) (swapped bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s transformer panicked: %v", kind, r)
		}
	}()

	body := Extract(heading, SectionStops)

	var replacement *html.Node
	switch kind {
	case KindPriceComparison:
		replacement = TransformPriceComparison(heading, body)
	case KindBestValue:
		replacement = TransformValueOption(heading, body, BestValueParams)
	case KindLowestPrice:
		replacement = TransformValueOption(heading, body, LowestPriceParams)
	case KindAllOptions:
		replacement = TransformOptionsGrid(heading, body)
	case KindBookingLinks:
		replacement = TransformBookingLinks(heading, body)
	}
	if replacement == nil {
		return false, nil
	}

	marks.Mark(heading, kind)
	marks.Mark(replacement, kind)
	Swap(replacement, heading, body)
	return true, nil
}
