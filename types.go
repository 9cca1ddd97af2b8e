package mdextra

import "github.com/alnah/go-mdextra/internal/pipeline"

// Heading is a rendered heading: level 1-6, anchor id and inner markup.
type Heading = pipeline.Heading

// MacroResolver produces the markup for a {{name(args)}} token. It is
// called synchronously, in document order, with the lower-cased name and
// the trimmed, entity-decoded arguments. An empty result keeps the token;
// an error becomes an inline error notice.
type MacroResolver = pipeline.MacroResolver

// MacroResolverFunc adapts a function to MacroResolver.
type MacroResolverFunc = pipeline.MacroResolverFunc

// Highlighter turns code into escaped, highlighted markup without a
// surrounding <pre>.
type Highlighter = pipeline.Highlighter

// Input is one document to format.
type Input struct {
	// Markdown is the wiki text. Required.
	Markdown string

	// Macros resolves macro tokens. When nil the formatter's default
	// resolver is used; when both are nil tokens are left as they are.
	Macros MacroResolver

	// Title overrides the standalone document title. Empty uses the
	// first heading.
	Title string
}

// Result is a formatted document.
type Result struct {
	// HTML is the fragment, or the full document in standalone mode.
	HTML string

	// Warnings are the soft diagnostics gathered while formatting:
	// unknown link ids, undefined footnotes, bad TOC parameters.
	Warnings []string

	// Headings in document order.
	Headings []Heading

	// FootnoteIDs lists referenced footnotes in numbering order.
	FootnoteIDs []string
}
