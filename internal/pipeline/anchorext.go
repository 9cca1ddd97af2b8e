package pipeline

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdextra/internal/logging"
)

// Parser priorities. Lower runs first: the task checkbox parser (0) keeps
// its [ ] markers, and the bracket parser runs ahead of goldmark's own
// link parser (200), which is left with images only.
const (
	bracketParserPriority   = 199
	footnoteBlockPriority   = 999
	footnoteSectionPriority = 999
	anchorRendererPriority  = 500
)

var (
	renderStateKey      = parser.NewContextKey()
	bracketStateKey     = parser.NewContextKey()
	definitionsReadyKey = parser.NewContextKey()
	loggerKey           = parser.NewContextKey()
)

// NewAnchors returns a goldmark extension that resolves bracketed spans
// with the nested-bracket scanner while inline spans are parsed, and
// renders footnotes in Markdown Extra form. Link text is still parsed as
// Markdown. Every link and footnote attribute is escaped with esc; a nil
// esc selects GoldmarkEscaper.
func NewAnchors(esc Escaper) goldmark.Extender {
	if esc == nil {
		esc = GoldmarkEscaper{}
	}
	return &anchorExtension{esc: esc}
}

type anchorExtension struct {
	esc Escaper
}

func (e *anchorExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(extension.NewFootnoteBlockParser(), footnoteBlockPriority),
		),
		parser.WithInlineParsers(
			util.Prioritized(&bracketParser{esc: e.esc}, bracketParserPriority),
		),
		parser.WithASTTransformers(
			util.Prioritized(&footnoteSectionTransformer{}, footnoteSectionPriority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&anchorHTMLRenderer{esc: e.esc}, anchorRendererPriority),
		),
	)
}

// RenderStateFromContext returns the RenderState attached to pc. A new
// one is attached when none is present.
func RenderStateFromContext(pc parser.Context) *RenderState {
	if state, ok := pc.Get(renderStateKey).(*RenderState); ok && state != nil {
		return state
	}
	state := NewRenderState()
	pc.Set(renderStateKey, state)
	return state
}

// WithRenderState attaches state to pc so a parse fills it.
func WithRenderState(pc parser.Context, state *RenderState) {
	pc.Set(renderStateKey, state)
}

func withParseLogger(pc parser.Context, logger *log.Logger) {
	pc.Set(loggerKey, logger)
}

func parseLogger(pc parser.Context) *log.Logger {
	if logger, ok := pc.Get(loggerKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return logging.Default()
}

// loadDefinitions copies link reference and footnote definitions into
// state. Block parsing is complete by the time inline parsing starts, so
// the first caller sees every definition; later calls are no-ops.
func loadDefinitions(root ast.Node, source []byte, pc parser.Context, state *RenderState) {
	if pc.Get(definitionsReadyKey) != nil {
		return
	}
	pc.Set(definitionsReadyKey, true)

	for _, ref := range pc.References() {
		state.AddLink(string(ref.Label()), string(ref.Destination()), string(ref.Title()))
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fn, ok := n.(*east.Footnote); ok {
			state.AddFootnote(string(fn.Ref), blockText(fn, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
}

// blockText joins the raw lines of every block under n.
func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := c.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func documentRoot(n ast.Node) ast.Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}

// ---------------------------------------------------------------------------
// Bracket scan over the remainder of a block
// ---------------------------------------------------------------------------

// bracketScan is the paired-bracket table of a block, from the first
// bracket the parser met to the end of the block.
type bracketScan struct {
	text   string
	chunks []scanChunk
	spans  map[int]*bracketSpan // keyed by source offset of [
}

// scanChunk maps a line of text back to its source offset.
type scanChunk struct {
	idx int
	abs int
}

type bracketSpan struct {
	openIdx  int
	closeIdx int // -1 when unterminated
	closeAbs int
}

// scanBrackets reads the block from the current position to its end,
// pairs brackets, and restores the reader position.
func scanBrackets(block text.Reader) *bracketScan {
	savedLine, savedSeg := block.Position()

	sc := &bracketScan{}
	var sb strings.Builder
	for {
		line, seg := block.PeekLine()
		if line == nil {
			break
		}
		sc.chunks = append(sc.chunks, scanChunk{idx: sb.Len(), abs: seg.Start})
		sb.Write(line)
		block.AdvanceLine()
	}
	block.SetPosition(savedLine, savedSeg)
	sc.text = sb.String()

	pairs := pairBrackets(sc.text)
	sc.spans = make(map[int]*bracketSpan, len(pairs))
	for open, end := range pairs {
		span := &bracketSpan{openIdx: open, closeIdx: end, closeAbs: -1}
		if end >= 0 {
			span.closeAbs = sc.abs(end)
		}
		sc.spans[sc.abs(open)] = span
	}
	return sc
}

// abs converts an index into text to a source offset.
func (sc *bracketScan) abs(idx int) int {
	i := sort.Search(len(sc.chunks), func(i int) bool { return sc.chunks[i].idx > idx }) - 1
	if i < 0 {
		return idx
	}
	c := sc.chunks[i]
	return c.abs + idx - c.idx
}

// bracketState is the inline-parse state of the block being parsed.
type bracketState struct {
	block ast.Node
	scan  *bracketScan
	stack []*bracketMarker

	// seq numbers markers in opening order. links holds the links built
	// in this block that are still siblings of later markers, ordered by
	// the seq of the marker they replaced.
	seq   int
	links []linkRecord
}

// linkRecord remembers the source form of a resolved link so a literal
// span around it can turn it back into text.
type linkRecord struct {
	seq    int
	link   *ast.Link
	suffix string // "](url)" or "][id]"
}

func bracketStateFor(parent ast.Node, pc parser.Context) *bracketState {
	st, _ := pc.Get(bracketStateKey).(*bracketState)
	if st == nil {
		st = &bracketState{}
		pc.Set(bracketStateKey, st)
	}
	if st.block != parent {
		st.block = parent
		st.scan = nil
		st.stack = st.stack[:0]
		st.links = st.links[:0]
	}
	return st
}

func (st *bracketState) lookup(pos int) (*bracketSpan, bool) {
	if st.scan == nil {
		return nil, false
	}
	span, ok := st.scan.spans[pos]
	return span, ok
}

// popLinks removes and returns the links built after marker m opened.
// Each link is popped once, so the work stays linear in the block.
func (st *bracketState) popLinks(m *bracketMarker) []linkRecord {
	i := len(st.links)
	for i > 0 && st.links[i-1].seq >= m.seq {
		i--
	}
	popped := st.links[i:]
	st.links = st.links[:i]
	return popped
}

// unwrapLinks turns the links built inside the span of m back into their
// source text. A span that is not a link keeps its content verbatim.
func (st *bracketState) unwrapLinks(m *bracketMarker) {
	for _, rec := range st.popLinks(m) {
		link := rec.link
		parent := link.Parent()
		if parent == nil || parent != m.Parent() {
			continue
		}
		parent.InsertBefore(parent, link, rawString("["))
		for c := link.FirstChild(); c != nil; {
			next := c.NextSibling()
			link.RemoveChild(link, c)
			parent.InsertBefore(parent, link, c)
			c = next
		}
		parent.InsertBefore(parent, link, rawString(rec.suffix))
		parent.RemoveChild(parent, link)
	}
}

// ---------------------------------------------------------------------------
// Inline parser
// ---------------------------------------------------------------------------

// bracketParser handles every [ and the ] that closes one of its spans.
// Each open bracket becomes a marker node; when its paired ] arrives the
// span is classified and the marker replaced.
type bracketParser struct {
	esc Escaper
}

func (p *bracketParser) Trigger() []byte {
	return []byte{'[', ']'}
}

func (p *bracketParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()
	if len(line) == 0 {
		return nil
	}
	st := bracketStateFor(parent, pc)
	if line[0] == '[' {
		return p.open(parent, block, pc, st, seg.Start)
	}
	return p.close(block, pc, st, seg.Start)
}

func (p *bracketParser) open(parent ast.Node, block text.Reader, pc parser.Context, st *bracketState, pos int) ast.Node {
	loadDefinitions(documentRoot(parent), block.Source(), pc, RenderStateFromContext(pc))

	span, ok := st.lookup(pos)
	if !ok {
		st.scan = scanBrackets(block)
		if span, ok = st.lookup(pos); !ok {
			return nil
		}
	}

	if span.closeIdx < 0 {
		parseLogger(pc).Debug("unterminated bracket, copying rest verbatim", logging.FieldPos, pos)
		return hardStop(block, st.scan.text[span.openIdx:])
	}

	block.Advance(1)
	st.seq++
	marker := &bracketMarker{span: span, scan: st.scan, seq: st.seq}
	if d := pc.LastDelimiter(); d != nil {
		marker.bottom = d
	}
	st.stack = append(st.stack, marker)
	return marker
}

func (p *bracketParser) close(block text.Reader, pc parser.Context, st *bracketState, pos int) ast.Node {
	for len(st.stack) > 0 {
		top := st.stack[len(st.stack)-1]
		switch {
		case top.span.closeAbs > pos:
			// an image label or another construct owns this ]
			return nil
		case top.span.closeAbs < pos:
			// the paired ] was swallowed by a code span or raw HTML
			st.stack = st.stack[:len(st.stack)-1]
			continue
		}
		st.stack = st.stack[:len(st.stack)-1]
		return p.resolve(block, pc, st, top)
	}
	return nil
}

// resolve classifies the span of marker m, whose closing ] is the
// reader's current byte.
func (p *bracketParser) resolve(block text.Reader, pc parser.Context, st *bracketState, m *bracketMarker) ast.Node {
	state := RenderStateFromContext(pc)
	src := m.scan.text
	inner := src[m.span.openIdx+1 : m.span.closeIdx]

	hi := len(src)
	if n := len(st.stack); n > 0 && st.stack[n-1].scan == m.scan {
		hi = st.stack[n-1].span.closeIdx
	}
	rest := src[m.span.closeIdx+1 : hi]

	if fm := footnoteRefPattern.FindStringSubmatch(inner); fm != nil {
		st.popLinks(m)
		parser.ProcessDelimiters(m.bottom, pc)
		for c := m.NextSibling(); c != nil; {
			next := c.NextSibling()
			c.Parent().RemoveChild(c.Parent(), c)
			c = next
		}
		m.Parent().RemoveChild(m.Parent(), m)
		block.Advance(1)
		return &FootnoteRef{ID: fm[1], html: footnoteRefHTML(p.esc, state, fm[1])}
	}

	if rm := refLinkIDPattern.FindStringSubmatchIndex(rest); rm != nil {
		id := rest[rm[2]:rm[3]]
		if id == "" {
			id = inner
		}
		target, ok := state.Link(id)
		suffix := "]" + rest[:rm[1]]
		advanceBytes(block, 1+rm[1])
		if !ok {
			folded := state.FoldLinkID(id)
			parseLogger(pc).Debug("link id not found", logging.FieldLinkID, folded)
			state.Warn("link-id not found - %s", folded)
			st.unwrapLinks(m)
			return rawString(suffix)
		}
		link := ast.NewLink()
		link.Destination = []byte(target.URL)
		if target.HasTitle {
			link.Title = []byte(target.Title)
		}
		return st.wrapLink(block.Source(), pc, m, link, suffix)
	}

	if im := inlineLinkPattern.FindStringSubmatchIndex(rest); im != nil {
		var url string
		if im[2] >= 0 {
			url = rest[im[2]:im[3]]
		} else {
			url = rest[im[4]:im[5]]
		}
		if url == "#" {
			url = "#" + inner
		}
		link := ast.NewLink()
		link.Destination = []byte(url)
		switch {
		case im[6] >= 0:
			link.Title = []byte(strings.ReplaceAll(rest[im[6]:im[7]], `"`, "&quot;"))
		case im[8] >= 0:
			link.Title = []byte(strings.ReplaceAll(rest[im[8]:im[9]], `"`, "&quot;"))
		}
		suffix := "]" + rest[:im[1]]
		advanceBytes(block, 1+im[1])
		return st.wrapLink(block.Source(), pc, m, link, suffix)
	}

	// Plain bracketed text: the marker stays and renders as [, and links
	// resolved inside go back to text.
	st.unwrapLinks(m)
	_, seg := block.PeekLine()
	block.Advance(1)
	return ast.NewTextSegment(seg.WithStop(seg.Start + 1))
}

// wrapLink moves everything parsed after marker m into link and drops m.
// Autolinks found in the link text become plain text.
func (st *bracketState) wrapLink(source []byte, pc parser.Context, m *bracketMarker, link *ast.Link, suffix string) ast.Node {
	st.popLinks(m)
	st.links = append(st.links, linkRecord{seq: m.seq, link: link, suffix: suffix})
	parser.ProcessDelimiters(m.bottom, pc)
	for c := m.NextSibling(); c != nil; {
		next := c.NextSibling()
		c.Parent().RemoveChild(c.Parent(), c)
		if auto, ok := c.(*ast.AutoLink); ok {
			c = rawString(string(auto.Label(source)))
		}
		link.AppendChild(link, c)
		c = next
	}
	m.Parent().RemoveChild(m.Parent(), m)
	return link
}

// hardStop consumes the rest of the block and returns it verbatim.
func hardStop(block text.Reader, rest string) ast.Node {
	for {
		line, _ := block.PeekLine()
		if line == nil {
			break
		}
		block.AdvanceLine()
	}
	return rawString(strings.TrimSuffix(rest, "\n"))
}

// advanceBytes advances the reader by n bytes, crossing lines.
func advanceBytes(block text.Reader, n int) {
	for n > 0 {
		line, _ := block.PeekLine()
		if line == nil {
			return
		}
		if n < len(line) {
			block.Advance(n)
			return
		}
		n -= len(line)
		block.AdvanceLine()
	}
}

func rawString(s string) ast.Node {
	n := ast.NewString([]byte(s))
	n.SetRaw(true)
	return n
}

// ---------------------------------------------------------------------------
// Footnote section
// ---------------------------------------------------------------------------

// footnoteSectionTransformer replaces goldmark's footnote lists with a
// section listing referenced footnotes in first-reference order.
type footnoteSectionTransformer struct{}

func (t *footnoteSectionTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	state := RenderStateFromContext(pc)
	loadDefinitions(doc, reader.Source(), pc, state)

	defs := make(map[string]*east.Footnote)
	var detached []ast.Node
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *east.FootnoteList:
			detached = append(detached, node)
		case *east.Footnote:
			if _, dup := defs[string(node.Ref)]; !dup {
				defs[string(node.Ref)] = node
			}
			if _, inList := node.Parent().(*east.FootnoteList); !inList {
				detached = append(detached, node)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	for _, n := range detached {
		n.Parent().RemoveChild(n.Parent(), n)
	}

	if len(state.FoundFootnoteIDs) == 0 {
		return
	}

	section := &FootnoteSection{}
	for _, id := range state.FoundFootnoteIDs {
		def, ok := defs[id]
		if !ok {
			continue
		}
		item := &FootnoteItem{ID: id}
		for c := def.FirstChild(); c != nil; {
			next := c.NextSibling()
			def.RemoveChild(def, c)
			item.AppendChild(item, c)
			c = next
		}
		backlink := &FootnoteBacklink{ID: id}
		if para, ok := item.LastChild().(*ast.Paragraph); ok {
			para.AppendChild(para, backlink)
		} else {
			para := ast.NewParagraph()
			para.AppendChild(para, backlink)
			item.AppendChild(item, para)
		}
		section.AppendChild(section, item)
	}
	doc.AppendChild(doc, section)
}

// ---------------------------------------------------------------------------
// Nodes
// ---------------------------------------------------------------------------

// Node kinds of the anchor extension.
var (
	KindBracketMarker    = ast.NewNodeKind("BracketMarker")
	KindFootnoteRef      = ast.NewNodeKind("FootnoteRef")
	KindFootnoteSection  = ast.NewNodeKind("FootnoteSection")
	KindFootnoteItem     = ast.NewNodeKind("FootnoteItem")
	KindFootnoteBacklink = ast.NewNodeKind("FootnoteBacklink")
)

// bracketMarker stands for an open [ until its span is classified. A
// marker that survives parsing renders as a literal [.
type bracketMarker struct {
	ast.BaseInline
	span   *bracketSpan
	scan   *bracketScan
	bottom ast.Node
	seq    int
}

func (n *bracketMarker) Kind() ast.NodeKind { return KindBracketMarker }

func (n *bracketMarker) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// FootnoteRef is a resolved [^id] reference.
type FootnoteRef struct {
	ast.BaseInline
	ID   string
	html string
}

func (n *FootnoteRef) Kind() ast.NodeKind { return KindFootnoteRef }

func (n *FootnoteRef) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"ID": n.ID}, nil)
}

// FootnoteSection is the trailing list of referenced footnotes.
type FootnoteSection struct {
	ast.BaseBlock
}

func (n *FootnoteSection) Kind() ast.NodeKind { return KindFootnoteSection }

func (n *FootnoteSection) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// FootnoteItem holds the body of one footnote.
type FootnoteItem struct {
	ast.BaseBlock
	ID string
}

func (n *FootnoteItem) Kind() ast.NodeKind { return KindFootnoteItem }

func (n *FootnoteItem) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"ID": n.ID}, nil)
}

// FootnoteBacklink points from a footnote body back to its reference.
type FootnoteBacklink struct {
	ast.BaseInline
	ID string
}

func (n *FootnoteBacklink) Kind() ast.NodeKind { return KindFootnoteBacklink }

func (n *FootnoteBacklink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"ID": n.ID}, nil)
}

// ---------------------------------------------------------------------------
// Renderer
// ---------------------------------------------------------------------------

// anchorHTMLRenderer renders the extension's nodes and every ast.Link,
// so resolved links and footnotes share one Escaper.
type anchorHTMLRenderer struct {
	esc Escaper
}

func (r *anchorHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(KindBracketMarker, r.renderMarker)
	reg.Register(KindFootnoteRef, r.renderFootnoteRef)
	reg.Register(KindFootnoteSection, r.renderSection)
	reg.Register(KindFootnoteItem, r.renderItem)
	reg.Register(KindFootnoteBacklink, r.renderBacklink)
}

func (r *anchorHTMLRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Link)
	_, _ = w.WriteString(`<a href="`)
	_, _ = w.WriteString(r.esc.EscapeURL(string(n.Destination)))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.WriteString(r.esc.EscapeTitle(string(n.Title)))
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, html.LinkAttributeFilter)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (r *anchorHTMLRenderer) renderMarker(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_ = w.WriteByte('[')
	}
	return ast.WalkContinue, nil
}

func (r *anchorHTMLRenderer) renderFootnoteRef(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(node.(*FootnoteRef).html)
	}
	return ast.WalkContinue, nil
}

func (r *anchorHTMLRenderer) renderSection(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<div class=\"footnotes\"><hr />\n<ol>\n")
	} else {
		_, _ = w.WriteString("</ol>\n</div>\n")
	}
	return ast.WalkContinue, nil
}

func (r *anchorHTMLRenderer) renderItem(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(`<li id="footnote:`)
		_, _ = w.WriteString(r.esc.EscapeAttr(node.(*FootnoteItem).ID))
		_, _ = w.WriteString("\">\n")
	} else {
		_, _ = w.WriteString("</li>\n")
	}
	return ast.WalkContinue, nil
}

func (r *anchorHTMLRenderer) renderBacklink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(` <a href="#footnote-ref:`)
		_, _ = w.WriteString(r.esc.EscapeAttr(node.(*FootnoteBacklink).ID))
		_, _ = w.WriteString(`" rev="footnote">&#8617;</a>`)
	}
	return ast.WalkContinue, nil
}
