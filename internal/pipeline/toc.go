package pipeline

import (
	"context"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/alnah/go-mdextra/internal/logging"
)

// Precompiled regex patterns for TOC expansion.
var (
	// {toc}, {>toc}, {<TOC h2..h4}, {toc:-h3}. The renderer wraps a lone
	// placeholder in <p> and encodes the alignment marker.
	tocPlaceholderPattern = regexp.MustCompile(
		`(?im)^[ \t]*(?:<p>)?\{[ ]*(<|>|&lt;|&gt;)?toc(?:(?::|[ ]+)(.+?))?[ ]*\}(?:</p>)?[ \t]*$`)

	// h2..h4, h2-, -h4, ..5
	tocRangePattern = regexp.MustCompile(`(?i)^(?:h([1-6]))?(?:\.{2,}|-)(?:h?([1-6]))?$`)

	preBlockPattern = regexp.MustCompile(`(?is)<pre[\s>].*?</pre>`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// TOC alignment classes.
const (
	tocAlignNone  = ""
	tocAlignLeft  = "left"
	tocAlignRight = "right"
)

// TOCExpander defines the contract for TOC placeholder expansion.
type TOCExpander interface {
	ExpandTOC(ctx context.Context, htmlContent string, state *RenderState) string
}

// TOCExpansion replaces {toc} placeholders with a list of the headings
// collected in the render state.
type TOCExpansion struct{}

// NewTOCExpansion creates a new TOC expander.
func NewTOCExpansion() *TOCExpansion {
	return &TOCExpansion{}
}

// tocRequest is one parsed placeholder.
type tocRequest struct {
	align      string
	startLevel int
	endLevel   int
}

// ExpandTOC expands every placeholder line outside <pre> blocks. Each
// placeholder is expanded independently against the same heading list.
// Content without placeholders is returned unchanged.
func (t *TOCExpansion) ExpandTOC(ctx context.Context, htmlContent string, state *RenderState) string {
	if ctx.Err() != nil {
		return htmlContent
	}

	matches := tocPlaceholderPattern.FindAllStringSubmatchIndex(htmlContent, -1)
	if len(matches) == 0 {
		return htmlContent
	}
	pres := preBlockPattern.FindAllStringIndex(htmlContent, -1)
	logger := logging.FromContext(ctx)

	var sb strings.Builder
	sb.Grow(len(htmlContent))
	last, k := 0, 0
	for _, m := range matches {
		for k < len(pres) && pres[k][1] <= m[0] {
			k++
		}
		if k < len(pres) && pres[k][0] <= m[0] {
			continue
		}

		var align, param string
		if m[2] >= 0 {
			align = htmlContent[m[2]:m[3]]
		}
		if m[4] >= 0 {
			param = htmlContent[m[4]:m[5]]
		}
		req := parseTOCRequest(align, param, state)
		checkHeadingStructure(req, state)

		sb.WriteString(htmlContent[last:m[0]])
		sb.WriteString(renderTOC(req, state.Headings))
		last = m[1]

		logger.Debug("expanded TOC",
			logging.FieldRange, strconv.Itoa(req.startLevel)+".."+strconv.Itoa(req.endLevel),
			logging.FieldHeadings, len(state.Headings))
	}
	sb.WriteString(htmlContent[last:])
	return sb.String()
}

// parseTOCRequest reads the alignment marker and range parameter of a
// placeholder. An unusable parameter falls back to h1..h6 with a warning.
func parseTOCRequest(align, param string, state *RenderState) tocRequest {
	req := tocRequest{startLevel: 1, endLevel: 6}

	switch align {
	case ">", "&gt;":
		req.align = tocAlignRight
	case "<", "&lt;":
		req.align = tocAlignLeft
	default:
		req.align = tocAlignNone
	}

	if param == "" {
		return req
	}

	m := tocRangePattern.FindStringSubmatch(param)
	if m == nil || (m[1] == "" && m[2] == "") {
		state.Warn("illegal TOC parameter - %s (valid example: 'h2..h4')", param)
		return req
	}
	if m[1] != "" {
		req.startLevel, _ = strconv.Atoi(m[1])
	}
	if m[2] != "" {
		req.endLevel, _ = strconv.Atoi(m[2])
	}
	return req
}

// checkHeadingStructure warns when the document opens below the first
// level the TOC asks for.
func checkHeadingStructure(req tocRequest, state *RenderState) {
	if len(state.Headings) == 0 {
		return
	}
	first := state.Headings[0].Level
	if first >= req.startLevel+1 {
		state.Warn("illegal structure of headers - h%d should be set before h%d", req.startLevel, first)
	}
}

// renderTOC builds the list markup, padded with blank lines.
func renderTOC(req tocRequest, headings []Heading) string {
	class := "toc"
	if req.align != tocAlignNone {
		class += " " + req.align
	}

	var sb strings.Builder
	sb.WriteString("\n\n<ul class=\"")
	sb.WriteString(class)
	sb.WriteString("\">")
	for _, h := range headings {
		if h.Level < req.startLevel || h.Level > req.endLevel {
			continue
		}
		sb.WriteString(`<li class="heading`)
		sb.WriteString(strconv.Itoa(h.Level))
		sb.WriteString(`"><a href="#`)
		sb.WriteString(h.ID)
		sb.WriteString(`">`)
		sb.WriteString(h.Content)
		sb.WriteString("</a></li>\n")
	}
	sb.WriteString("</ul>\n")
	return sb.String()
}

// HeadingText strips tags from heading content and decodes entities.
func HeadingText(content string) string {
	s := htmlTagPattern.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(s))
}
