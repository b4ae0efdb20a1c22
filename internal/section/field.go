package section

import "strings"

// Field is a "label: value" pair extracted from a section body line.
type Field struct {
	Label string
	Value string
}

// Variant selects the rendering style for a parsed field.
type Variant int

// Field style variants. VariantPlain is the default label/value rendering.
const (
	VariantPlain Variant = iota
	VariantPrice
	VariantProviders
	VariantPriceRange
)

// labelMatchers is the closed set of label-category rules, checked in
// order; the first substring match wins. "Price Range" precedes "Price"
// so the more specific category is not shadowed.
var labelMatchers = []struct {
	substr  string
	variant Variant
}{
	{"Providers", VariantProviders},
	{"Price Range", VariantPriceRange},
	{"Price", VariantPrice},
}

// ParseField splits text at the first ':' into a trimmed label and value.
// Any further colons stay inside the value, so times and URLs survive.
// Returns false when the text carries no separator.
func ParseField(text string) (Field, bool) {
	idx := strings.Index(text, ":")
	if idx == -1 {
		return Field{}, false
	}
	return Field{
		Label: strings.TrimSpace(text[:idx]),
		Value: strings.TrimSpace(text[idx+1:]),
	}, true
}

// Variant classifies the field's label against the closed matcher set.
// Matching is case-sensitive substring containment, same as detection.
func (f Field) Variant() Variant {
	for _, m := range labelMatchers {
		if strings.Contains(f.Label, m.substr) {
			return m.variant
		}
	}
	return VariantPlain
}
