package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters, which
// goldmark passes through untouched. ConvertMarkPlaceholders turns them
// into <mark> tags after rendering, so raw HTML can stay disabled.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

const utf8BOM = "\uFEFF"

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// ==text== on a single line
	highlightPattern = regexp.MustCompile(`==([^=\n](?:[^\n]*?[^=\n])?)==`)

	// ``` or ~~~ fence opener, up to three spaces of indent
	fencePattern = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

// maxBlankLines is the longest run of blank lines kept outside code.
const maxBlankLines = 2

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// WikiPreprocessor normalises wiki text before rendering: line endings,
// byte order mark, ==mark== syntax and runs of blank lines. Fenced code
// blocks and code spans are left as written.
type WikiPreprocessor struct{}

// PreprocessMarkdown applies all transformations.
func (p *WikiPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, utf8BOM)
	content = crlfOrCR.ReplaceAllString(content, "\n")

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var fence string
	blanks := 0
	for _, line := range lines {
		if fence != "" {
			out = append(out, line)
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}
		if m := fencePattern.FindStringSubmatch(line); m != nil {
			fence = m[1]
			blanks = 0
			out = append(out, line)
			continue
		}

		if strings.TrimSpace(line) == "" {
			blanks++
			if blanks > maxBlankLines {
				continue
			}
			out = append(out, line)
			continue
		}
		blanks = 0
		out = append(out, convertHighlights(line))
	}
	return strings.Join(out, "\n")
}

// Compile-time interface check.
var _ MarkdownPreprocessor = (*WikiPreprocessor)(nil)

// closesFence reports whether line closes a fence opened with opener: the
// same character, at least as long, nothing else but spaces.
func closesFence(line, opener string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(opener) {
		return false
	}
	return strings.Trim(trimmed, opener[:1]) == ""
}

// convertHighlights rewrites ==text== outside code spans to placeholders.
func convertHighlights(line string) string {
	if !strings.Contains(line, "==") {
		return line
	}
	code := codeSpanEnds(line)
	if len(code) == 0 {
		return replaceHighlights(line)
	}

	var sb strings.Builder
	last := 0
	for i := 0; i < len(line); i++ {
		end, ok := code[i]
		if !ok {
			continue
		}
		sb.WriteString(replaceHighlights(line[last:i]))
		sb.WriteString(line[i : end+1])
		last = end + 1
		i = end
	}
	sb.WriteString(replaceHighlights(line[last:]))
	return sb.String()
}

func replaceHighlights(s string) string {
	return highlightPattern.ReplaceAllString(s, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	if !strings.Contains(content, MarkStartPlaceholder) {
		return content
	}
	return strings.NewReplacer(
		MarkStartPlaceholder, "<mark>",
		MarkEndPlaceholder, "</mark>",
	).Replace(content)
}
