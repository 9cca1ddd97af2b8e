package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Heading is a document heading as collected after base rendering.
type Heading struct {
	Level   int    // 1-6
	ID      string // anchor ID
	Content string // inner HTML, inline tags preserved
}

// LinkTarget is a reference-style link definition.
type LinkTarget struct {
	URL      string
	Title    string
	HasTitle bool
}

// RenderState holds the side tables of one render and the diagnostics
// appended while post-processing it.
//
// A RenderState belongs to a single render. It is threaded by pointer
// through every stage and must never be shared between goroutines.
type RenderState struct {
	// Headings in document order. Stages only read it.
	Headings []Heading

	// URLs and Titles are keyed by folded (lower-cased) link id.
	URLs   map[string]string
	Titles map[string]string

	// Footnotes maps footnote id to its raw body.
	Footnotes map[string]string

	// FoundFootnoteIDs lists footnotes in first-reference order.
	// The first referenced footnote is labelled [1].
	FoundFootnoteIDs []string

	// Warnings are advisory; they never fail a render.
	Warnings []string

	footnoteNumbers map[string]int
	caser           *cases.Caser
}

// NewRenderState returns an empty RenderState ready for use.
func NewRenderState() *RenderState {
	caser := cases.Lower(language.Und)
	return &RenderState{
		URLs:            make(map[string]string),
		Titles:          make(map[string]string),
		Footnotes:       make(map[string]string),
		footnoteNumbers: make(map[string]int),
		caser:           &caser,
	}
}

// Warn appends a formatted warning.
func (s *RenderState) Warn(format string, args ...any) {
	s.Warnings = append(s.Warnings, fmt.Sprintf(format, args...))
}

// FoldLinkID normalizes a link id to the form used as URLs/Titles key.
func (s *RenderState) FoldLinkID(id string) string {
	if s.caser == nil {
		return strings.ToLower(id)
	}
	return s.caser.String(id)
}

// AddLink registers a reference-style link definition.
// An empty title is treated as absent. Earlier definitions win.
func (s *RenderState) AddLink(id, url, title string) {
	s.ensureMaps()
	key := s.FoldLinkID(id)
	if _, exists := s.URLs[key]; exists {
		return
	}
	s.URLs[key] = url
	if title != "" {
		s.Titles[key] = title
	}
}

// Link looks up a reference-style link definition by id.
func (s *RenderState) Link(id string) (LinkTarget, bool) {
	key := s.FoldLinkID(id)
	url, ok := s.URLs[key]
	if !ok {
		return LinkTarget{}, false
	}
	title, hasTitle := s.Titles[key]
	return LinkTarget{URL: url, Title: title, HasTitle: hasTitle}, true
}

// AddFootnote registers a footnote definition.
func (s *RenderState) AddFootnote(id, body string) {
	s.ensureMaps()
	if _, exists := s.Footnotes[id]; exists {
		return
	}
	s.Footnotes[id] = body
}

// HasFootnote reports whether a footnote with the given id is defined.
func (s *RenderState) HasFootnote(id string) bool {
	_, ok := s.Footnotes[id]
	return ok
}

// ReferenceFootnote records a reference to footnote id and returns its
// 1-based label number. A footnote referenced again keeps its first
// number; first reports whether this call assigned it.
func (s *RenderState) ReferenceFootnote(id string) (n int, first bool) {
	s.ensureMaps()
	if n, ok := s.footnoteNumbers[id]; ok {
		return n, false
	}
	s.FoundFootnoteIDs = append(s.FoundFootnoteIDs, id)
	n = len(s.FoundFootnoteIDs)
	s.footnoteNumbers[id] = n
	return n, true
}

// ensureMaps lets a zero RenderState be used directly.
func (s *RenderState) ensureMaps() {
	if s.URLs == nil {
		s.URLs = make(map[string]string)
	}
	if s.Titles == nil {
		s.Titles = make(map[string]string)
	}
	if s.Footnotes == nil {
		s.Footnotes = make(map[string]string)
	}
	if s.footnoteNumbers == nil {
		s.footnoteNumbers = make(map[string]int, len(s.FoundFootnoteIDs))
		for i, id := range s.FoundFootnoteIDs {
			if _, ok := s.footnoteNumbers[id]; !ok {
				s.footnoteNumbers[id] = i + 1
			}
		}
	}
}
