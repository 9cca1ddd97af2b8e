// Package mdextra renders Markdown Extra wiki text to HTML.
//
// # Quick Start
//
//	f, err := mdextra.NewFormatter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	html := f.ToHTML(ctx, mdextra.Input{Markdown: "# Hello\n\n{toc}\n\n## World"})
//
// ToHTML never fails: when formatting goes wrong it returns a <pre> block
// with the error message and the original text. Use Format to get the
// error, the soft warnings and the collected headings instead.
//
// # Pipeline
//
//  1. Preprocessing: BOM and line endings, ==mark== syntax
//  2. Rendering with goldmark: tables, definition lists, heading ids, and
//     a bracket resolver for nested links, reference links and [^footnote]
//     references, with a footnote section appended
//  3. TOC expansion: a line holding {toc}, {>toc} or {<toc h2..h4} becomes
//     a list of the headings in range
//  4. Macro expansion: {{name(arg, ...)}} calls the MacroResolver;
//     !{{name}} is kept literally
//  5. Highlighting: tagged code blocks go through chroma and come out as
//     <pre><code class="LANG syntaxhl">
//  6. Optional relative link rewriting and standalone document assembly
//
// # Macros
//
// Any MacroResolver works. The resolver is called synchronously from the
// goroutine calling Format, once per token in document order:
//
//	html := f.ToHTML(ctx, mdextra.Input{
//	    Markdown: "Hello {{user}}",
//	    Macros: mdextra.MacroResolverFunc(func(name string, args []string) (string, error) {
//	        if name == "user" {
//	            return "<strong>alice</strong>", nil
//	        }
//	        return "", nil // keep unknown tokens
//	    }),
//	})
//
// # Parallel Processing
//
// A Formatter may be shared between goroutines. FormatterPool bounds
// concurrency for batch work and lets each worker carry its own resolver.
package mdextra
