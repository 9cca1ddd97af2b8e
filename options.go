package mdextra

// formatterConfig holds Formatter settings collected from options.
type formatterConfig struct {
	hardWraps       bool
	xhtml           bool
	unsafe          bool
	highlight       bool
	highlightStyle  string
	inlineHighlight bool
	guessLanguage   bool
	highlighter     Highlighter
	baseURL         string
	standalone      bool
	lang            string
	styleInput      string
	assetPath       string
	macros          MacroResolver
}

func defaultFormatterConfig() formatterConfig {
	return formatterConfig{
		xhtml:     true,
		highlight: true,
	}
}

// Option configures a Formatter.
type Option func(*formatterConfig)

// WithHardWraps renders every newline inside a paragraph as <br />.
func WithHardWraps(enabled bool) Option {
	return func(c *formatterConfig) { c.hardWraps = enabled }
}

// WithXHTML selects self-closing void elements. On by default.
func WithXHTML(enabled bool) Option {
	return func(c *formatterConfig) { c.xhtml = enabled }
}

// WithUnsafeHTML passes raw HTML and dangerous link targets through.
// Only use it for trusted input. Formatting output again gives the same
// HTML only when this is on; otherwise the rendered markup of the first
// pass is raw HTML and is omitted.
func WithUnsafeHTML(enabled bool) Option {
	return func(c *formatterConfig) { c.unsafe = enabled }
}

// WithHighlighting turns code highlighting on or off. On by default.
func WithHighlighting(enabled bool) Option {
	return func(c *formatterConfig) { c.highlight = enabled }
}

// WithHighlightStyle selects the chroma style ("github" when empty).
func WithHighlightStyle(name string) Option {
	return func(c *formatterConfig) { c.highlightStyle = name }
}

// WithInlineHighlighting highlights fenced code while rendering instead of
// in a pass over the rendered markup. The output has the same shape.
func WithInlineHighlighting(enabled bool) Option {
	return func(c *formatterConfig) { c.inlineHighlight = enabled }
}

// WithLanguageGuessing highlights code blocks without a language tag when
// their language can be detected.
func WithLanguageGuessing(enabled bool) Option {
	return func(c *formatterConfig) { c.guessLanguage = enabled }
}

// WithHighlighter replaces the chroma engine. Inline highlighting and the
// chroma stylesheet are not used with a custom engine.
func WithHighlighter(h Highlighter) Option {
	return func(c *formatterConfig) { c.highlighter = h }
}

// WithBaseURL resolves relative link and image targets against rawURL,
// which must be absolute.
func WithBaseURL(rawURL string) Option {
	return func(c *formatterConfig) { c.baseURL = rawURL }
}

// WithStandalone wraps output in a complete HTML document carrying the
// stylesheet.
func WithStandalone(enabled bool) Option {
	return func(c *formatterConfig) { c.standalone = enabled }
}

// WithDocumentLang sets the lang attribute of standalone documents.
func WithDocumentLang(lang string) Option {
	return func(c *formatterConfig) { c.lang = lang }
}

// WithStyle selects the standalone stylesheet: an embedded style name such
// as "wiki", or a path to a .css file.
func WithStyle(nameOrPath string) Option {
	return func(c *formatterConfig) { c.styleInput = nameOrPath }
}

// WithAssetPath adds a directory searched for styles and templates before
// the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *formatterConfig) { c.assetPath = path }
}

// WithMacroResolver sets the resolver used when Input.Macros is nil.
func WithMacroResolver(r MacroResolver) Option {
	return func(c *formatterConfig) { c.macros = r }
}
