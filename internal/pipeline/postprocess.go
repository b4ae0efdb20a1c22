package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// ReportContainerClass marks the top-level wrapper the observer loop
// treats as a report root.
const ReportContainerClass = "agent-report"

// Precompiled regex patterns for performance.
var (
	// An HTML tag that was emitted as escaped text by the renderer,
	// e.g. `&lt;div class=&quot;x&quot;&gt;`. The body may contain
	// further entities but never a real angle bracket.
	escapedTag = regexp.MustCompile(`&lt;/?[a-zA-Z][^<>]*?&gt;`)

	// Block boundaries that should be separated by a blank line.
	blockBoundary = regexp.MustCompile(`(</(?:p|ul|ol|h[1-6]|pre|blockquote|table)>)[ \t\n]*(<(?:p|ul|ol|h[1-6]|pre|blockquote|table|div)\b)`)

	// Code regions, excluded from escaped-markup repair. The <pre>
	// alternative comes first so a fenced block swallows its nested
	// <code> instead of stranding the closing </pre>.
	codeRegion = regexp.MustCompile(`(?s)<pre\b.*?</pre>|<code\b.*?</code>`)

	// Inline colors that vanish on the dark report theme.
	darkColor = regexp.MustCompile(`(?i)(color\s*:\s*)(#000000|#000|black|rgb\(\s*0\s*,\s*0\s*,\s*0\s*\))`)
)

// HTMLPostprocessor defines the contract for post-render markup fixes.
type HTMLPostprocessor interface {
	Postprocess(markup string) string
}

// ReportPostprocessor repairs and styles the renderer's raw output
// before it enters the host document.
type ReportPostprocessor struct{}

// Postprocess applies the fixed post-render sequence: repair HTML that
// was escaped into literal text, restore blank-line rhythm between
// blocks, fix theme-hostile inline colors, and wrap everything in the
// report container.
func (p *ReportPostprocessor) Postprocess(markup string) string {
	markup = RepairEscapedMarkup(markup)
	markup = InsertBlockSpacing(markup)
	markup = FixInlineColors(markup)
	return WrapReport(markup)
}

// RepairEscapedMarkup re-parses HTML fragments the renderer escaped into
// plain text (agent output sometimes nests raw markup where the renderer
// expects text) and splices them back as real tags. Content inside
// <pre> blocks and inline <code> spans is intentionally escaped and
// stays untouched.
func RepairEscapedMarkup(markup string) string {
	return mapOutsideCode(markup, func(segment string) string {
		return escapedTag.ReplaceAllStringFunc(segment, func(m string) string {
			return html.UnescapeString(m)
		})
	})
}

// InsertBlockSpacing adds blank-line spacing between adjacent block
// elements for consistent visual rhythm in the serialized report.
func InsertBlockSpacing(markup string) string {
	return blockBoundary.ReplaceAllString(markup, "$1\n\n$2")
}

// FixInlineColors rewrites pure-black inline colors to inherit so agent
// styling stays readable on the dark report theme.
func FixInlineColors(markup string) string {
	return darkColor.ReplaceAllString(markup, "${1}inherit")
}

// WrapReport wraps the processed fragment in the single top-level report
// container.
func WrapReport(markup string) string {
	return `<div class="` + ReportContainerClass + `">` + "\n" +
		strings.TrimSpace(markup) + "\n</div>"
}

// mapOutsideCode applies fn to the stretches of markup outside <pre>
// and <code> regions, leaving the regions themselves verbatim.
func mapOutsideCode(markup string, fn func(string) string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range codeRegion.FindAllStringIndex(markup, -1) {
		sb.WriteString(fn(markup[last:loc[0]]))
		sb.WriteString(markup[loc[0]:loc[1]])
		last = loc[1]
	}
	sb.WriteString(fn(markup[last:]))
	return sb.String()
}
