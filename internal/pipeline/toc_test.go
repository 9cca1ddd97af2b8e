package pipeline

import (
	"context"
	"strings"
	"testing"
)

func tocState() *RenderState {
	state := NewRenderState()
	state.Headings = []Heading{
		{Level: 1, ID: "title", Content: "Title"},
		{Level: 2, ID: "intro", Content: "Intro"},
		{Level: 3, ID: "details", Content: "<em>Details</em>"},
		{Level: 4, ID: "deep", Content: "Deep"},
		{Level: 2, ID: "outro", Content: "Outro"},
	}
	return state
}

// ---------------------------------------------------------------------------
// TestExpandTOC
// ---------------------------------------------------------------------------

func TestExpandTOC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
		wantWarnings int
	}{
		{
			name:  "bare placeholder lists every heading",
			input: "{toc}",
			wantContains: []string{
				`<ul class="toc">`,
				`<li class="heading1"><a href="#title">Title</a></li>`,
				`<li class="heading3"><a href="#details"><em>Details</em></a></li>`,
				`<li class="heading4"><a href="#deep">Deep</a></li>`,
			},
		},
		{
			name:  "paragraph-wrapped placeholder",
			input: "<p>{TOC}</p>\n<p>after</p>",
			wantContains: []string{
				`<ul class="toc">`,
				"</ul>\n\n<p>after</p>",
			},
			wantExcludes: []string{"{TOC}", "<p><ul"},
		},
		{
			name:         "range h2..h4",
			input:        "{toc:h2..h4}",
			wantContains: []string{`href="#intro"`, `href="#details"`, `href="#deep"`, `href="#outro"`},
			wantExcludes: []string{`href="#title"`},
		},
		{
			name:         "range with space separator and open end",
			input:        "{toc h3-}",
			wantContains: []string{`href="#details"`, `href="#deep"`},
			wantExcludes: []string{`href="#title"`, `href="#intro"`},
		},
		{
			name:         "range with open start",
			input:        "{toc:..h2}",
			wantContains: []string{`href="#title"`, `href="#intro"`, `href="#outro"`},
			wantExcludes: []string{`href="#details"`},
		},
		{
			name:         "right aligned",
			input:        "<p>{&gt;toc}</p>",
			wantContains: []string{`<ul class="toc right">`},
		},
		{
			name:         "left aligned raw marker",
			input:        "{<toc}",
			wantContains: []string{`<ul class="toc left">`},
		},
		{
			name:         "bogus parameter falls back to full range",
			input:        "{toc:bogus}",
			wantContains: []string{`href="#title"`, `href="#deep"`},
			wantWarnings: 1,
		},
		{
			name:         "separator without levels is illegal",
			input:        "{toc:..}",
			wantContains: []string{`href="#title"`},
			wantWarnings: 1,
		},
		{
			name:         "placeholder must own its line",
			input:        "<p>see {toc} here</p>",
			wantContains: []string{"<p>see {toc} here</p>"},
			wantExcludes: []string{"<ul"},
		},
		{
			name:         "placeholder inside pre is left alone",
			input:        "<pre><code>\n{toc}\n</code></pre>",
			wantContains: []string{"\n{toc}\n"},
			wantExcludes: []string{"<ul"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			state := tocState()
			got := NewTOCExpansion().ExpandTOC(context.Background(), tt.input, state)

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("expected %q in output:\n%s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("unexpected %q in output:\n%s", exclude, got)
				}
			}
			if len(state.Warnings) != tt.wantWarnings {
				t.Errorf("warnings = %q, want %d", state.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestExpandTOC_WarningMessages(t *testing.T) {
	t.Parallel()

	state := tocState()
	NewTOCExpansion().ExpandTOC(context.Background(), "{toc:bogus}", state)
	if len(state.Warnings) != 1 || state.Warnings[0] != "illegal TOC parameter - bogus (valid example: 'h2..h4')" {
		t.Errorf("warnings = %q", state.Warnings)
	}

	state = NewRenderState()
	state.Headings = []Heading{{Level: 3, ID: "x", Content: "X"}}
	NewTOCExpansion().ExpandTOC(context.Background(), "{toc}", state)
	if len(state.Warnings) != 1 || state.Warnings[0] != "illegal structure of headers - h1 should be set before h3" {
		t.Errorf("warnings = %q", state.Warnings)
	}
}

func TestExpandTOC_ExactOutput(t *testing.T) {
	t.Parallel()

	state := NewRenderState()
	state.Headings = []Heading{
		{Level: 1, ID: "a", Content: "A"},
		{Level: 2, ID: "b", Content: "B"},
	}
	got := NewTOCExpansion().ExpandTOC(context.Background(), "before\n{toc}\nafter", state)
	want := "before\n\n\n<ul class=\"toc\">" +
		"<li class=\"heading1\"><a href=\"#a\">A</a></li>\n" +
		"<li class=\"heading2\"><a href=\"#b\">B</a></li>\n" +
		"</ul>\n\nafter"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestExpandTOC_NoPlaceholderIsIdentity(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"<h1 id=\"t\">Title</h1>\n<p>toc without braces</p>",
		"<p>{tocs}</p>",
		"<p>{{toc}}</p>",
	}
	for _, input := range inputs {
		state := tocState()
		if got := NewTOCExpansion().ExpandTOC(context.Background(), input, state); got != input {
			t.Errorf("ExpandTOC(%q) = %q, want unchanged", input, got)
		}
		if len(state.Warnings) != 0 {
			t.Errorf("unexpected warnings for %q: %q", input, state.Warnings)
		}
	}
}

func TestExpandTOC_MultiplePlaceholders(t *testing.T) {
	t.Parallel()

	state := tocState()
	got := NewTOCExpansion().ExpandTOC(context.Background(), "{toc:h1..h1}\n<p>mid</p>\n{>toc:h4..h4}", state)
	if strings.Count(got, "<ul class=") != 2 {
		t.Fatalf("expected two lists:\n%s", got)
	}
	if !strings.Contains(got, `<ul class="toc"><li class="heading1">`) {
		t.Errorf("first list should hold h1 only:\n%s", got)
	}
	if !strings.Contains(got, `<ul class="toc right"><li class="heading4">`) {
		t.Errorf("second list should hold h4 only:\n%s", got)
	}
}

func TestExpandTOC_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := NewTOCExpansion().ExpandTOC(ctx, "{toc}", tocState()); got != "{toc}" {
		t.Errorf("cancelled expansion should return input, got %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestHeadingText
// ---------------------------------------------------------------------------

func TestHeadingText(t *testing.T) {
	t.Parallel()

	if got := HeadingText(" Use <code>a &amp; b</code> "); got != "Use a & b" {
		t.Errorf("HeadingText = %q", got)
	}
}
