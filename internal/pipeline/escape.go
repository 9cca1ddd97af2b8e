package pipeline

import (
	"bufio"
	"bytes"

	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Escaper escapes values placed into the attributes of anchor markup:
// link destinations, titles, and the ids of footnote references.
type Escaper interface {
	EscapeURL(url string) string
	EscapeTitle(title string) string
	EscapeAttr(value string) string
}

// GoldmarkEscaper escapes attribute values with the routines goldmark's
// HTML renderer applies to link destinations and titles. The anchor
// extension renders every link and footnote through it.
type GoldmarkEscaper struct {
	// Unsafe keeps dangerous URLs (javascript:, vbscript:, data: other than images)
	// instead of emitting an empty href. Mirrors html.WithUnsafe.
	Unsafe bool
}

// EscapeURL percent-encodes and HTML-escapes a link destination.
func (e GoldmarkEscaper) EscapeURL(url string) string {
	dest := []byte(url)
	if !e.Unsafe && html.IsDangerousURL(dest) {
		return ""
	}
	return string(util.EscapeHTML(util.URLEscape(dest, true)))
}

// EscapeTitle HTML-escapes a title. Entity references and backslash
// escapes are resolved first, so an already-encoded &quot; is not
// encoded twice.
func (e GoldmarkEscaper) EscapeTitle(title string) string {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	html.DefaultWriter.Write(w, []byte(title))
	_ = w.Flush()
	return buf.String()
}

// EscapeAttr HTML-escapes a plain attribute value.
func (e GoldmarkEscaper) EscapeAttr(value string) string {
	return string(util.EscapeHTML([]byte(value)))
}

// Compile-time interface check.
var _ Escaper = GoldmarkEscaper{}
