package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	quiet    bool
	verbose  bool
	logLevel string
	color    string
}

// renderFlags holds Markdown renderer flags.
type renderFlags struct {
	hardWraps bool
	html4     bool
	unsafe    bool
}

// highlightFlags holds code highlighting flags.
type highlightFlags struct {
	style    string
	inline   bool
	guess    bool
	disabled bool
}

// macroFlags holds built-in macro settings.
type macroFlags struct {
	dateFormat string
	version    string
}

// documentFlags holds standalone document flags.
type documentFlags struct {
	standalone bool
	title      string
	lang       string
	style      string
	assetPath  string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	output    string
	workers   int
	timeout   string
	baseURL   string
	render    renderFlags
	highlight highlightFlags
	macros    macroFlags
	document  documentFlags

	// changed reports whether a flag was set on the command line, so
	// boolean flags only override the config when given explicitly.
	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output and timing")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.color, "color", "auto", "colour output: auto, always, never")
}

// addRenderFlags adds renderer flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.hardWraps, "hard-wraps", false, "render newlines inside paragraphs as <br>")
	fs.BoolVar(&f.html4, "html4", false, "emit HTML void tags instead of XHTML")
	fs.BoolVar(&f.unsafe, "unsafe", false, "pass raw HTML through")
}

// addHighlightFlags adds highlighting flags to a FlagSet.
func addHighlightFlags(fs *flag.FlagSet, f *highlightFlags) {
	fs.StringVar(&f.style, "highlight-style", "", "chroma style for code blocks (default github)")
	fs.BoolVar(&f.inline, "inline-highlight", false, "highlight while rendering")
	fs.BoolVar(&f.guess, "guess-lang", false, "guess the language of untagged code blocks")
	fs.BoolVar(&f.disabled, "no-highlight", false, "disable code highlighting")
}

// addMacroFlags adds macro flags to a FlagSet.
func addMacroFlags(fs *flag.FlagSet, f *macroFlags) {
	fs.StringVar(&f.dateFormat, "date-format", "", "default format of the date macro")
	fs.StringVar(&f.version, "doc-version", "", "value of the version macro")
}

// addDocumentFlags adds standalone document flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.BoolVarP(&f.standalone, "standalone", "s", false, "write full HTML documents with CSS")
	fs.StringVar(&f.title, "title", "", "document title (\"\" = first heading)")
	fs.StringVar(&f.lang, "lang", "", "document language attribute")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// newConvertFlagSet registers every convert flag on a new FlagSet.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "overall timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.baseURL, "base-url", "", "resolve relative links against this URL")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addHighlightFlags(fs, &f.highlight)
	addMacroFlags(fs, &f.macros)
	addDocumentFlags(fs, &f.document)

	f.changed = fs.Changed
	return fs
}

// parseConvertFlags parses convert command flags and returns positional
// args. Parse errors and -h print the usage to usageOut.
func parseConvertFlags(args []string, usageOut io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(usageOut)
	fs.Usage = func() { printConvertUsage(usageOut) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
