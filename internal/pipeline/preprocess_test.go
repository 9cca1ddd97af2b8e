package pipeline

import (
	"context"
	"testing"
)

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	const (
		open = MarkStartPlaceholder
		end  = MarkEndPlaceholder
	)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "CRLF and CR line endings",
			input: "a\r\nb\rc",
			want:  "a\nb\nc",
		},
		{
			name:  "byte order mark removed",
			input: "\uFEFF# Title",
			want:  "# Title",
		},
		{
			name:  "mark syntax",
			input: "a ==hot== b ==cold==",
			want:  "a " + open + "hot" + end + " b " + open + "cold" + end,
		},
		{
			name:  "comparison operators are not marks",
			input: "if a === b",
			want:  "if a === b",
		},
		{
			name:  "mark syntax inside code span untouched",
			input: "`x ==y==` and ==z==",
			want:  "`x ==y==` and " + open + "z" + end,
		},
		{
			name:  "blank lines compressed",
			input: "a\n\n\n\n\nb",
			want:  "a\n\n\nb",
		},
		{
			name:  "fenced code kept verbatim",
			input: "```go\nif a ==b== {\n\n\n\n}\n```\n==c==",
			want:  "```go\nif a ==b== {\n\n\n\n}\n```\n" + open + "c" + end,
		},
		{
			name:  "tilde fence closed by longer run",
			input: "~~~\n==a==\n~~~~\n==b==",
			want:  "~~~\n==a==\n~~~~\n" + open + "b" + end,
		},
		{
			name:  "backtick fence not closed by tildes",
			input: "```\n~~~\n==a==\n```",
			want:  "```\n~~~\n==a==\n```",
		},
	}

	p := &WikiPreprocessor{}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := p.PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreprocessMarkdown_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := (&WikiPreprocessor{}).PreprocessMarkdown(ctx, "a\r\nb"); got != "a\r\nb" {
		t.Errorf("cancelled preprocessing should return input, got %q", got)
	}
}

func TestConvertMarkPlaceholders(t *testing.T) {
	t.Parallel()

	in := "<p>" + MarkStartPlaceholder + "a" + MarkEndPlaceholder + "</p>"
	if got := ConvertMarkPlaceholders(in); got != "<p><mark>a</mark></p>" {
		t.Errorf("ConvertMarkPlaceholders() = %q", got)
	}
	if got := ConvertMarkPlaceholders("<p>plain</p>"); got != "<p>plain</p>" {
		t.Errorf("ConvertMarkPlaceholders() = %q", got)
	}
}
