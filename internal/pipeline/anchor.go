package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns applied to a bracketed span or to the text right after its
// closing bracket. All are anchored and stop at the first newline they
// may not cross, so each lookahead is bounded by the current line.
var (
	// [^id]
	footnoteRefPattern = regexp.MustCompile(`\A\^(.+)`)

	// [text][id], [text] [id], [text]\n  [id] and [text][]
	refLinkIDPattern = regexp.MustCompile(`\A[ ]?(?:\n[ ]*)?\[([^\]\n]*)\]`)

	// [text](url), [text](<url>), [text](url "title"), [text](url 'title').
	// A bare url has no spaces and may hold one level of balanced
	// parentheses, as in Foo_(bar).
	// Captures: 1=<url>, 2=bare url, 3=double-quoted title, 4=single-quoted title.
	inlineLinkPattern = regexp.MustCompile(
		`\A\([ ]*(?:<([^<>\n]+)>|((?:[^\s()<>]|\([^\s()<>]*\))+))(?:[ ]+(?:"([^"\n]*)"|'([^'\n]*)'))?[ ]*\)`)
)

// footnoteRefHTML records a reference to footnote id in state and returns
// its superscript marker. Undefined ids are labelled [?] and produce a
// warning.
func footnoteRefHTML(esc Escaper, state *RenderState, id string) string {
	attrID := esc.EscapeAttr(id)

	var sb strings.Builder
	if !state.HasFootnote(id) {
		state.Warn("undefined footnote id - %s", id)
		sb.WriteString(`<sup id="footnote-ref:`)
		sb.WriteString(attrID)
		sb.WriteString(`"><a href="#footnote:`)
		sb.WriteString(attrID)
		sb.WriteString(`" rel="footnote">[?]</a></sup>`)
		return sb.String()
	}

	n, first := state.ReferenceFootnote(id)
	sb.WriteString("<sup")
	if first {
		sb.WriteString(` id="footnote-ref:`)
		sb.WriteString(attrID)
		sb.WriteByte('"')
	}
	sb.WriteString(`><a href="#footnote:`)
	sb.WriteString(attrID)
	sb.WriteString(`" rel="footnote">[`)
	sb.WriteString(strconv.Itoa(n))
	sb.WriteString("]</a></sup>")
	return sb.String()
}

// pairBrackets pairs every unescaped [ outside code spans with its
// closing ]. The value is the index of the matching ], or -1 when the
// bracket is never closed. Escaped brackets and brackets inside code
// spans have no entry; a ] without an open partner is ignored.
func pairBrackets(s string) map[int]int {
	pairs := make(map[int]int)
	code := codeSpanEnds(s)

	var stack []int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '`':
			if end, ok := code[i]; ok {
				i = end
			} else {
				for i+1 < len(s) && s[i+1] == '`' {
					i++
				}
			}
		case '[':
			pairs[i] = -1
			stack = append(stack, i)
		case ']':
			if len(stack) > 0 {
				pairs[stack[len(stack)-1]] = i
				stack = stack[:len(stack)-1]
			}
		}
	}
	return pairs
}

// codeSpanEnds maps the start of each backtick run that opens a code span
// to the index of the last backtick of its closing run. A run opens a
// span when a later run of the same length exists.
func codeSpanEnds(s string) map[int]int {
	if strings.IndexByte(s, '`') < 0 {
		return nil
	}

	type run struct{ start, end int }
	var runs []run
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] != '`' {
			continue
		}
		start := i
		for i+1 < len(s) && s[i+1] == '`' {
			i++
		}
		runs = append(runs, run{start, i})
	}

	// Walk runs backwards so each run sees the nearest later run of its
	// length; the opener/closer pairing is then resolved forwards.
	nextSame := make([]int, len(runs))
	lastByLen := make(map[int]int)
	for k := len(runs) - 1; k >= 0; k-- {
		n := runs[k].end - runs[k].start + 1
		if idx, ok := lastByLen[n]; ok {
			nextSame[k] = idx
		} else {
			nextSame[k] = -1
		}
		lastByLen[n] = k
	}

	ends := make(map[int]int)
	for k := 0; k < len(runs); {
		if nextSame[k] < 0 {
			k++
			continue
		}
		closer := nextSame[k]
		ends[runs[k].start] = runs[closer].end
		k = closer + 1
	}
	return ends
}
