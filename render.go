package agentreport

import (
	"context"
	"fmt"
	"html"

	"github.com/alnah/go-agentreport/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownNormalizer = (*pipeline.AgentMarkdownNormalizer)(nil)
	_ pipeline.HTMLConverter      = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLPostprocessor  = (*pipeline.ReportPostprocessor)(nil)
)

// Renderer turns raw agent markdown into report markup ready for the
// host document: normalize, convert, post-process, wrap.
type Renderer struct {
	cfg        rendererConfig
	normalizer pipeline.MarkdownNormalizer
	converter  pipeline.HTMLConverter
	post       pipeline.HTMLPostprocessor
}

// NewRenderer creates a Renderer with default configuration.
// Use options to customize behavior (e.g., WithRenderTimeout).
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		cfg:        rendererConfig{timeout: defaultRenderTimeout},
		normalizer: &pipeline.AgentMarkdownNormalizer{},
		converter:  pipeline.NewGoldmarkConverter(),
		post:       &pipeline.ReportPostprocessor{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render runs the text pipeline and returns report markup. A renderer
// failure is a hard error: there is no meaningful partial markdown
// rendering.
func (r *Renderer) Render(ctx context.Context, markdown string) (string, error) {
	if markdown == "" {
		return "", ErrEmptyContent
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	normalized := r.normalizer.Normalize(markdown)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	markup, err := r.converter.ToHTML(ctx, normalized)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	return r.post.Postprocess(markup), nil
}

// RenderTask renders a task-execution result. Failed tasks bypass the
// transformation pipeline entirely: the provided error string is shown
// verbatim inside an error banner.
func (r *Renderer) RenderTask(ctx context.Context, task TaskResult) (string, error) {
	if !task.Success {
		return errorBanner(task.Error), nil
	}
	return r.Render(ctx, task.TaskSummary)
}

// errorBanner builds the failure presentation for an unsuccessful task.
// The message is escaped, not interpreted.
func errorBanner(message string) string {
	return `<div class="` + pipeline.ReportContainerClass + `">` + "\n" +
		`<div class="report-error">` + html.EscapeString(message) + "</div>\n</div>"
}

// SourcesAnchorID is the stable id carried by the "## Sources" heading.
const SourcesAnchorID = pipeline.SourcesAnchorID

// ReportContainerClass marks the wrapper div the watcher scans for.
const ReportContainerClass = pipeline.ReportContainerClass
