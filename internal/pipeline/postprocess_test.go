package pipeline

import (
	"strings"
	"testing"
)

func TestRepairEscapedMarkup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "escaped div restored",
			input:    "<p>&lt;div class=&quot;widget&quot;&gt;content&lt;/div&gt;</p>",
			expected: `<p><div class="widget">content</div></p>`,
		},
		{
			name:     "escaped self-closing img restored",
			input:    "<p>&lt;img src=&quot;data:image/png;base64,AA==&quot;/&gt;</p>",
			expected: `<p><img src="data:image/png;base64,AA=="/></p>`,
		},
		{
			name:     "plain entities outside tags preserved",
			input:    "<p>3 &lt; 5 and 7 &gt; 2</p>",
			expected: "<p>3 &lt; 5 and 7 &gt; 2</p>",
		},
		{
			name:     "code block content untouched",
			input:    "<pre><code>&lt;div&gt;example&lt;/div&gt;</code></pre>",
			expected: "<pre><code>&lt;div&gt;example&lt;/div&gt;</code></pre>",
		},
		{
			name:     "inline code span untouched",
			input:    "<p>Use <code>&lt;div&gt;</code> for layout.</p>",
			expected: "<p>Use <code>&lt;div&gt;</code> for layout.</p>",
		},
		{
			name:     "escaped tag beside inline code repaired",
			input:    "<p>&lt;b&gt;note&lt;/b&gt; the <code>&lt;hr&gt;</code> tag</p>",
			expected: "<p><b>note</b> the <code>&lt;hr&gt;</code> tag</p>",
		},
		{
			name:     "mixed pre and prose",
			input:    "<p>&lt;span&gt;x&lt;/span&gt;</p><pre>&lt;div&gt;</pre>",
			expected: "<p><span>x</span></p><pre>&lt;div&gt;</pre>",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RepairEscapedMarkup(tt.input); got != tt.expected {
				t.Errorf("RepairEscapedMarkup() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInsertBlockSpacing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "adjacent paragraphs separated",
			input:    "<p>a</p><p>b</p>",
			expected: "<p>a</p>\n\n<p>b</p>",
		},
		{
			name:     "heading then list separated",
			input:    "<h2>Title</h2><ul><li>x</li></ul>",
			expected: "<h2>Title</h2>\n\n<ul><li>x</li></ul>",
		},
		{
			name:     "single newline widened",
			input:    "<p>a</p>\n<p>b</p>",
			expected: "<p>a</p>\n\n<p>b</p>",
		},
		{
			name:     "inline elements untouched",
			input:    "<p><em>a</em><strong>b</strong></p>",
			expected: "<p><em>a</em><strong>b</strong></p>",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InsertBlockSpacing(tt.input); got != tt.expected {
				t.Errorf("InsertBlockSpacing() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFixInlineColors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "hex black rewritten",
			input:    `<span style="color: #000000">x</span>`,
			expected: `<span style="color: inherit">x</span>`,
		},
		{
			name:     "short hex rewritten",
			input:    `<span style="color:#000">x</span>`,
			expected: `<span style="color:inherit">x</span>`,
		},
		{
			name:     "named black rewritten",
			input:    `<span style="color: black">x</span>`,
			expected: `<span style="color: inherit">x</span>`,
		},
		{
			name:     "rgb black rewritten",
			input:    `<span style="color: rgb(0, 0, 0)">x</span>`,
			expected: `<span style="color: inherit">x</span>`,
		},
		{
			name:     "other colors kept",
			input:    `<span style="color: #ff8800">x</span>`,
			expected: `<span style="color: #ff8800">x</span>`,
		},
		{
			name:     "background untouched",
			input:    `<span style="background-color: white">x</span>`,
			expected: `<span style="background-color: white">x</span>`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FixInlineColors(tt.input); got != tt.expected {
				t.Errorf("FixInlineColors() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReportPostprocessor_Postprocess(t *testing.T) {
	t.Parallel()

	post := &ReportPostprocessor{}
	got := post.Postprocess("<p>&lt;span&gt;x&lt;/span&gt;</p><p>y</p>")

	if !strings.HasPrefix(got, `<div class="agent-report">`) {
		t.Errorf("output not wrapped in report container: %q", got)
	}
	if !strings.HasSuffix(got, "</div>") {
		t.Errorf("output missing container close: %q", got)
	}
	if !strings.Contains(got, "<span>x</span>") {
		t.Errorf("escaped markup not repaired: %q", got)
	}
	if !strings.Contains(got, "</p>\n\n<p>") {
		t.Errorf("block spacing missing: %q", got)
	}
}
