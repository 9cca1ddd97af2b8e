package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdextra/internal/logging"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML conversion. The returned state
// holds the headings, footnotes and warnings gathered while rendering.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, *RenderState, error)
}

// converterConfig holds GoldmarkConverter settings.
type converterConfig struct {
	hardWraps       bool
	xhtml           bool
	unsafe          bool
	inlineHighlight bool
	highlightStyle  string
}

// ConverterOption configures a GoldmarkConverter.
type ConverterOption func(*converterConfig)

// WithHardWraps renders soft line breaks as <br>.
func WithHardWraps(enabled bool) ConverterOption {
	return func(c *converterConfig) { c.hardWraps = enabled }
}

// WithXHTML renders void elements in self-closing form. On by default.
func WithXHTML(enabled bool) ConverterOption {
	return func(c *converterConfig) { c.xhtml = enabled }
}

// WithUnsafe keeps raw HTML and dangerous link destinations.
func WithUnsafe(enabled bool) ConverterOption {
	return func(c *converterConfig) { c.unsafe = enabled }
}

// WithInlineHighlighting highlights fenced code while rendering, using the
// named chroma style, instead of in a separate pass over the markup.
func WithInlineHighlighting(style string) ConverterOption {
	return func(c *converterConfig) {
		c.inlineHighlight = true
		c.highlightStyle = style
	}
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
// Bracketed spans are resolved by the anchor extension while inline
// content is parsed.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with the Markdown Extra
// extensions: tables, definition lists, footnotes, heading attributes.
func NewGoldmarkConverter(opts ...ConverterOption) *GoldmarkConverter {
	cfg := converterConfig{xhtml: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	anchors := NewAnchors(GoldmarkEscaper{Unsafe: cfg.unsafe})
	extensions := []goldmark.Extender{
		extension.GFM,            // Tables, strikethrough, autolinks, task lists
		extension.DefinitionList, // Term\n: definition
		anchors,                  // Nested links, reference links, footnotes
	}
	if cfg.inlineHighlight {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithStyle(cfg.highlightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
				chromahtml.PreventSurroundingPre(true),
			),
			highlighting.WithWrapperRenderer(wrapHighlighted),
		))
	}

	var rendererOpts []renderer.Option
	if cfg.hardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if cfg.xhtml {
		rendererOpts = append(rendererOpts, html.WithXHTML())
	}
	if cfg.unsafe {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Generate IDs for headings (required for TOC)
			parser.WithAttribute(),     // ## Heading {#custom-id}
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// wrapHighlighted writes the wrapper of a render-time highlighted block in
// the same form as the post-render highlighter.
func wrapHighlighted(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	if !entering {
		_, _ = w.WriteString("</code></pre>\n")
		return
	}
	lang, ok := c.Language()
	if !ok || len(lang) == 0 {
		_, _ = w.WriteString("<pre><code>")
		return
	}
	_, _ = w.WriteString(`<pre><code class="`)
	_, _ = w.Write(util.EscapeHTML(bytes.ToLower(lang)))
	_, _ = w.WriteString(` syntaxhl">`)
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, *RenderState, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	type result struct {
		html  string
		state *RenderState
		err   error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, r)}
			}
		}()

		state := NewRenderState()
		pc := parser.NewContext()
		WithRenderState(pc, state)
		withParseLogger(pc, logging.FromContext(ctx))

		src := []byte(content)
		doc := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

		var buf bytes.Buffer
		if err := c.md.Renderer().Render(&buf, src, doc); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		headings, err := c.collectHeadings(doc, src)
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}

		state.Headings = headings
		done <- result{html: ConvertMarkPlaceholders(buf.String()), state: state}
	}()

	select {
	case <-ctx.Done():
		return "", nil, ctx.Err()
	case r := <-done:
		if r.err == nil {
			logging.FromContext(ctx).Debug("rendered markdown",
				logging.FieldHeadings, len(r.state.Headings),
				logging.FieldWarnings, len(r.state.Warnings))
		}
		return r.html, r.state, r.err
	}
}

// collectHeadings returns the headings of doc that carry an id, in
// document order, with their content rendered as HTML.
func (c *GoldmarkConverter) collectHeadings(doc ast.Node, src []byte) ([]Heading, error) {
	var headings []Heading
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		id, ok := headingID(h)
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		var buf bytes.Buffer
		for child := h.FirstChild(); child != nil; child = child.NextSibling() {
			if err := c.md.Renderer().Render(&buf, src, child); err != nil {
				return ast.WalkStop, err
			}
		}
		headings = append(headings, Heading{
			Level:   h.Level,
			ID:      id,
			Content: strings.TrimSpace(ConvertMarkPlaceholders(buf.String())),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings, err
}

func headingID(h *ast.Heading) (string, bool) {
	v, ok := h.AttributeString("id")
	if !ok {
		return "", false
	}
	switch id := v.(type) {
	case []byte:
		return string(id), true
	case string:
		return id, true
	}
	return "", false
}

// Compile-time interface check.
var _ HTMLConverter = (*GoldmarkConverter)(nil)
