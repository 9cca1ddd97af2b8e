// Package pipeline implements the wiki text rendering stages.
//
// A document flows through the stages in order, each one working on the
// output of the previous:
//   - preprocessing: line endings, ==mark== syntax, blank line runs
//   - rendering: goldmark with the anchor extension (NewAnchors), which
//     resolves nested links, reference links and footnote references
//     inline and collects the headings of the document tree
//   - TOC expansion: {toc} placeholders become heading lists
//   - macro expansion: {{name(args)}} tokens go to a MacroResolver
//   - highlighting: tagged code blocks are rewritten with chroma
//   - optional link rewriting and standalone document assembly
//
// Every stage reads and writes the per-call RenderState; nothing is
// shared between concurrent conversions.
package pipeline
