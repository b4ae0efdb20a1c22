package section

import "testing"

func TestParseField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected Field
		ok       bool
	}{
		{
			name:     "simple pair",
			input:    "Duration: 2h 15m",
			expected: Field{Label: "Duration", Value: "2h 15m"},
			ok:       true,
		},
		{
			name:     "value keeps additional colons",
			input:    "Departure: 10:45 AM",
			expected: Field{Label: "Departure", Value: "10:45 AM"},
			ok:       true,
		},
		{
			name:     "url value survives",
			input:    "Link: https://example.com/deal",
			expected: Field{Label: "Link", Value: "https://example.com/deal"},
			ok:       true,
		},
		{
			name:     "label and value trimmed",
			input:    "  Price :  $120 ",
			expected: Field{Label: "Price", Value: "$120"},
			ok:       true,
		},
		{
			name:  "no separator",
			input: "just a sentence",
			ok:    false,
		},
		{
			name:     "empty value",
			input:    "Notes:",
			expected: Field{Label: "Notes", Value: ""},
			ok:       true,
		},
		{
			name:  "empty string",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseField(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseField(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("ParseField(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestParseFieldRoundTrip checks that label + ": " + value reconstructs
// the trimmed input for canonical "label: value" lines.
func TestParseFieldRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Price: $89",
		"Departure: 10:45 AM",
		"Link: https://example.com:8443/path",
		"Stops: 1: via Lisbon",
	}

	for _, input := range inputs {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			f, ok := ParseField(input)
			if !ok {
				t.Fatalf("ParseField(%q) returned no field", input)
			}
			if got := f.Label + ": " + f.Value; got != input {
				t.Errorf("round trip = %q, want %q", got, input)
			}
		})
	}
}

func TestFieldVariant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label    string
		expected Variant
	}{
		{"Price", VariantPrice},
		{"Total Price", VariantPrice},
		{"Price Range", VariantPriceRange},
		{"Providers", VariantProviders},
		{"Duration", VariantPlain},
		{"price", VariantPlain}, // matching is case-sensitive
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()

			f := Field{Label: tt.label}
			if got := f.Variant(); got != tt.expected {
				t.Errorf("Variant(%q) = %v, want %v", tt.label, got, tt.expected)
			}
		})
	}
}
