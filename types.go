package agentreport

import (
	"time"

	"github.com/alnah/go-agentreport/internal/section"
)

// Re-exported section types so callers never import internal packages.
type (
	// SectionKind identifies a recognized report section flavor.
	SectionKind = section.Kind

	// Field is a "label: value" pair extracted from a section body line.
	Field = section.Field

	// OptionCard is one selectable result inside an options grid.
	OptionCard = section.OptionCard
)

// Section kinds recognized by the transformers.
const (
	SectionUnknown         = section.KindUnknown
	SectionPriceComparison = section.KindPriceComparison
	SectionBestValue       = section.KindBestValue
	SectionLowestPrice     = section.KindLowestPrice
	SectionAllOptions      = section.KindAllOptions
	SectionBookingLinks    = section.KindBookingLinks
	SectionScreenshot      = section.KindScreenshot
)

// PlaceholderState tracks the lifecycle of an inline image placeholder.
type PlaceholderState int

// Placeholder states. The only transitions are Pending to Resolved and
// Pending to Failed.
const (
	PlaceholderPending PlaceholderState = iota
	PlaceholderResolved
	PlaceholderFailed
)

// Placeholder is a uniquely identified stand-in for an [IMAGE: ...]
// directive awaiting asynchronous resolution.
type Placeholder struct {
	ID          string
	Description string
	State       PlaceholderState
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout time.Duration
}

// defaultRenderTimeout is used when no timeout is specified.
const defaultRenderTimeout = 30 * time.Second

// WithRenderTimeout caps a single Render call.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithRenderTimeout(d time.Duration) RendererOption {
	if d <= 0 {
		panic("agentreport: WithRenderTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}
