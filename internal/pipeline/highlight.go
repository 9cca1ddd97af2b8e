package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-mdextra/internal/logging"
)

// Sentinel errors for highlighting.
var (
	ErrHighlight     = errors.New("highlighting failed")
	ErrStyleNotFound = errors.New("highlight style not found")
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

const (
	highlightClass  = "syntaxhl"
	chromaRootClass = "chroma"
)

// Escaped code holds no '<', so a block can never run into the next one.
var (
	// Captures: 1=language tag, 2=escaped code
	codeBlockPattern = regexp.MustCompile(`<pre><code class="(?:language-)?(\w+)">\s*([^<]+)</code></pre>`)

	// Captures: 1=escaped code
	untaggedCodeBlockPattern = regexp.MustCompile(`<pre><code>\s*([^<]+)</code></pre>`)
)

// Highlighter turns source code into highlighted markup. The output is
// already HTML-escaped and carries no surrounding <pre>.
type Highlighter interface {
	Highlight(code, lang string) (string, error)
}

// LanguageGuesser names the language of untagged code, or returns "".
type LanguageGuesser interface {
	GuessLanguage(code string) string
}

// ChromaHighlighter is a Highlighter backed by chroma, emitting CSS
// classes instead of inline styles and no line numbers.
type ChromaHighlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChromaHighlighter returns a highlighter using the named chroma style.
// An empty name selects DefaultHighlightStyle.
func NewChromaHighlighter(styleName string) (*ChromaHighlighter, error) {
	if styleName == "" {
		styleName = DefaultHighlightStyle
	}
	style, ok := styles.Registry[strings.ToLower(styleName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, styleName)
	}
	return &ChromaHighlighter{
		style: style,
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}, nil
}

// Highlight tokenises code with the lexer registered for lang. Unknown
// languages go through the plaintext lexer and come out escaped.
func (h *ChromaHighlighter) Highlight(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHighlight, lang, err)
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, h.style, iterator); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrHighlight, lang, err)
	}
	return sb.String(), nil
}

// WriteCSS writes the stylesheet for the highlighter's token classes,
// scoped to the syntaxhl class of highlighted blocks.
func (h *ChromaHighlighter) WriteCSS(w io.Writer) error {
	var sb strings.Builder
	if err := h.formatter.WriteCSS(&sb, h.style); err != nil {
		return err
	}
	_, err := io.WriteString(w, strings.ReplaceAll(sb.String(), "."+chromaRootClass, "."+highlightClass))
	return err
}

// Compile-time interface check.
var _ Highlighter = (*ChromaHighlighter)(nil)

// CodeHighlighter defines the contract for highlighting code blocks in
// rendered markup.
type CodeHighlighter interface {
	HighlightCode(ctx context.Context, htmlContent string) (string, error)
}

// CodeHighlighting rewrites <pre><code class="lang"> blocks into
// highlighted <pre><code class="lang syntaxhl"> blocks.
type CodeHighlighting struct {
	highlighter Highlighter
	guesser     LanguageGuesser
}

// NewCodeHighlighting returns a stage highlighting with h. When guesser is
// non-nil, blocks without a language tag are highlighted with the language
// it names.
func NewCodeHighlighting(h Highlighter, guesser LanguageGuesser) *CodeHighlighting {
	return &CodeHighlighting{highlighter: h, guesser: guesser}
}

// HighlightCode highlights every tagged block in document order, then the
// untagged blocks the guesser recognises.
func (c *CodeHighlighting) HighlightCode(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.Contains(htmlContent, "<pre><code") {
		return htmlContent, nil
	}
	logger := logging.FromContext(ctx)

	out, err := c.rewrite(htmlContent, codeBlockPattern, func(m []string) string {
		return strings.ToLower(m[1])
	})
	if err != nil {
		return "", err
	}

	if c.guesser != nil {
		out, err = c.rewrite(out, untaggedCodeBlockPattern, func(m []string) string {
			lang := c.guesser.GuessLanguage(html.UnescapeString(m[1]))
			if lang != "" {
				logger.Debug("guessed code language", logging.FieldLang, lang)
			}
			return lang
		})
		if err != nil {
			return "", err
		}
	}
	return out, nil
}

// Compile-time interface check.
var _ CodeHighlighter = (*CodeHighlighting)(nil)

// rewrite replaces each block matched by pattern, whose last group is the
// escaped code. Blocks for which langOf returns "" are kept as they are.
func (c *CodeHighlighting) rewrite(content string, pattern *regexp.Regexp, langOf func([]string) string) (string, error) {
	matches := pattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, nil
	}

	var sb strings.Builder
	sb.Grow(len(content))
	last := 0
	for _, loc := range matches {
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if loc[2*i] >= 0 {
				groups[i] = content[loc[2*i]:loc[2*i+1]]
			}
		}
		lang := langOf(groups)
		if lang == "" {
			continue
		}

		code := html.UnescapeString(groups[len(groups)-1])
		highlighted, err := c.highlighter.Highlight(code, lang)
		if err != nil {
			return "", err
		}

		sb.WriteString(content[last:loc[0]])
		sb.WriteString(`<pre><code class="`)
		sb.WriteString(lang)
		sb.WriteString(" " + highlightClass + `">`)
		sb.WriteString(highlighted)
		sb.WriteString("</code></pre>")
		last = loc[1]
	}
	sb.WriteString(content[last:])
	return sb.String(), nil
}
