// Package pipeline implements the Markdown-to-report-markup pipeline.
//
// This package handles the text-level stages of rendering:
//   - Markdown normalization (line endings, paragraph and heading
//     separation, Sources anchor stamping)
//   - Markdown to HTML conversion via Goldmark
//   - HTML post-processing (escaped markup repair, block spacing,
//     inline color fixes, report container wrapping)
//
// Tree-level section transformation is handled separately by
// internal/section. This separation keeps the pipeline focused on text
// rewriting, while the section transformers work on parsed nodes and
// must stay idempotent across repeated passes.
package pipeline
