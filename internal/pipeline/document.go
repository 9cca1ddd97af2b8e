package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrDocumentRender indicates the document template failed to execute.
var ErrDocumentRender = errors.New("document template rendering failed")

// defaultDocumentTitle is used when neither a title nor a heading exists.
const defaultDocumentTitle = "Document"

// DocumentData fills the standalone document template.
type DocumentData struct {
	Title string
	Lang  string
	Body  template.HTML

	// Headings of the fragment; the title falls back to them.
	Headings []Heading
}

// DocumentWrapper defines the contract for wrapping a fragment in a
// complete HTML document.
type DocumentWrapper interface {
	WrapDocument(ctx context.Context, fragment string, data *DocumentData) (string, error)
}

// DocumentWrapping renders fragments into an html/template shell.
type DocumentWrapping struct {
	tmpl *template.Template
}

// NewDocumentWrapping parses the document template. It must reference
// .Body and should reference .Title.
func NewDocumentWrapping(tmplContent string) (*DocumentWrapping, error) {
	tmpl, err := template.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}
	return &DocumentWrapping{tmpl: tmpl}, nil
}

// WrapDocument renders fragment into the template. Without a title the
// first h1 of data.Headings is used, else the first heading.
func (d *DocumentWrapping) WrapDocument(ctx context.Context, fragment string, data *DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filled := DocumentData{Lang: "en"}
	if data != nil {
		filled.Title, filled.Lang = data.Title, data.Lang
		if filled.Lang == "" {
			filled.Lang = "en"
		}
		if filled.Title == "" {
			filled.Title = DocumentTitle(data.Headings)
		}
	}
	if filled.Title == "" {
		filled.Title = defaultDocumentTitle
	}
	// #nosec G203 -- fragment is renderer output
	filled.Body = template.HTML(fragment)

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, &filled); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// Compile-time interface check.
var _ DocumentWrapper = (*DocumentWrapping)(nil)

// DocumentTitle returns the plain text of the first h1, else of the first
// heading, else a generic title.
func DocumentTitle(headings []Heading) string {
	for _, h := range headings {
		if h.Level == 1 {
			return HeadingText(h.Content)
		}
	}
	if len(headings) > 0 {
		return HeadingText(headings[0].Content)
	}
	return defaultDocumentTitle
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, else right after
// <body>, else at the start of the content. CSS is sanitized so it cannot
// close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>\n" + sanitizeCSS(cssContent) + "\n</style>\n"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.IndexByte(htmlContent[idx:], '>'); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}
	return styleBlock + htmlContent
}

// Compile-time interface check.
var _ CSSInjector = (*CSSInjection)(nil)

// sanitizeCSS escapes "</" so the CSS cannot end its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
