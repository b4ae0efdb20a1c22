// Package pipeline implements the text stages of report rendering:
// markdown normalization, goldmark conversion and HTML post-processing.
package pipeline

import (
	"regexp"
	"strings"
)

// SourcesAnchorID is the stable id stamped on the "## Sources" heading so
// presentation code can always locate the citation block.
const SourcesAnchorID = "sources-heading"

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Literal Sources heading line
	sourcesHeading = regexp.MustCompile(`(?m)^## Sources[ \t]*$`)

	// Fenced code block delimiter (backticks or tildes)
	fencedCodeBlock = regexp.MustCompile("^(```|~~~)")

	// Header pattern (ATX style)
	headerPattern = regexp.MustCompile(`^#{1,6}\s`)

	// List item patterns (unordered and ordered)
	unorderedListPattern = regexp.MustCompile(`^\s*[-*+]\s`)
	orderedListPattern   = regexp.MustCompile(`^\s*[0-9]+\.\s`)

	// Indented code block (4 spaces or tab)
	indentedCodeBlock = regexp.MustCompile(`^(    |\t)`)
)

// MarkdownNormalizer defines the contract for markdown normalization.
type MarkdownNormalizer interface {
	Normalize(content string) string
}

// AgentMarkdownNormalizer prepares agent-generated markdown for
// conversion. Agent output tends to pack blocks onto adjacent lines,
// which CommonMark folds into a single paragraph; the rewrites below
// restore the intended block boundaries.
type AgentMarkdownNormalizer struct{}

// Normalize applies the fixed rewrite sequence. Order matters: line
// endings first, then the Sources anchor, then spacing fixes from the
// most general to the most specific.
func (p *AgentMarkdownNormalizer) Normalize(content string) string {
	content = normalizeLineEndings(content)
	content = AnchorSourcesHeading(content)
	content = SeparateParagraphs(content)
	content = SeparateListBoundaries(content)
	content = SeparateHeadings(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// AnchorSourcesHeading tags the literal "## Sources" heading with the
// stable anchor id using the {#id} heading-attribute syntax.
func AnchorSourcesHeading(content string) string {
	return sourcesHeading.ReplaceAllString(content, "## Sources {#"+SourcesAnchorID+"}")
}

// SeparateParagraphs turns a single newline between two non-blank plain
// lines into a paragraph break. Lines continuing a list and lines
// following a heading are left to the dedicated rewrites below.
func SeparateParagraphs(content string) string {
	return processLinesWithCodeBlockAwareness(content, func(prev, current string) string {
		if isBlankLine(prev) || isBlankLine(current) {
			return current
		}
		if isListItem(prev) || headerPattern.MatchString(prev) {
			return current
		}
		return "\n" + current
	})
}

// SeparateListBoundaries forces a blank line after a list item that is
// immediately followed by a non-list, non-blank line, so the list block
// is terminated before the following paragraph.
func SeparateListBoundaries(content string) string {
	return processLinesWithCodeBlockAwareness(content, func(prev, current string) string {
		if isListItem(prev) && !isBlankLine(current) && !isListItem(current) {
			return "\n" + current
		}
		return current
	})
}

// SeparateHeadings forces a blank line after any heading line that is
// immediately followed by non-blank content.
func SeparateHeadings(content string) string {
	return processLinesWithCodeBlockAwareness(content, func(prev, current string) string {
		if headerPattern.MatchString(prev) && !isBlankLine(current) {
			return "\n" + current
		}
		return current
	})
}

// processLinesWithCodeBlockAwareness processes each line with a callback,
// but skips lines inside fenced or indented code blocks.
func processLinesWithCodeBlockAwareness(content string, process func(prev, current string) string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	inCodeBlock := false
	var previousLine string

	for i, line := range lines {
		// Track fenced code blocks
		if fencedCodeBlock.MatchString(line) {
			inCodeBlock = !inCodeBlock
		}

		// Skip processing inside code blocks or indented code blocks
		if inCodeBlock || indentedCodeBlock.MatchString(line) {
			result = append(result, line)
			previousLine = line
			continue
		}

		// First line has no previous
		if i == 0 {
			result = append(result, line)
			previousLine = line
			continue
		}

		processed := process(previousLine, line)
		if strings.HasPrefix(processed, "\n") {
			// Insert blank line before current line
			result = append(result, "")
			result = append(result, processed[1:])
		} else {
			result = append(result, processed)
		}

		// Use original line (not processed) to detect structure in next iteration.
		// This ensures we match against the original Markdown syntax, not inserted blank lines.
		previousLine = line
	}

	return strings.Join(result, "\n")
}

// isBlankLine returns true if the line is empty or contains only whitespace.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isListItem returns true if the line starts with a list marker (-, *, +, or 1.).
func isListItem(line string) bool {
	return unorderedListPattern.MatchString(line) || orderedListPattern.MatchString(line)
}
