package mdextra

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/alnah/go-mdextra/internal/assets"
	"github.com/alnah/go-mdextra/internal/fileutil"
	"github.com/alnah/go-mdextra/internal/langdetect"
	"github.com/alnah/go-mdextra/internal/logging"
	"github.com/alnah/go-mdextra/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.WikiPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.TOCExpander          = (*pipeline.TOCExpansion)(nil)
	_ pipeline.MacroExpander        = (*pipeline.MacroExpansion)(nil)
	_ pipeline.CodeHighlighter      = (*pipeline.CodeHighlighting)(nil)
	_ pipeline.DocumentWrapper      = (*pipeline.DocumentWrapping)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.LanguageGuesser      = (*langdetect.Guesser)(nil)
)

// fallbackPrefix starts the document returned by ToHTML on failure.
const fallbackPrefix = "<pre>problem parsing wiki text: "

// cssWriter is implemented by highlighters that can emit their stylesheet.
type cssWriter interface {
	WriteCSS(w io.Writer) error
}

// Formatter renders wiki text to HTML. Create with NewFormatter; a
// Formatter holds no per-document state and may be used from many
// goroutines at once.
type Formatter struct {
	cfg             formatterConfig
	preprocessor    pipeline.MarkdownPreprocessor
	htmlConverter   pipeline.HTMLConverter
	tocExpander     pipeline.TOCExpander
	macroExpander   pipeline.MacroExpander
	codeHighlighter pipeline.CodeHighlighter // nil when highlighting is off
	documentWrapper pipeline.DocumentWrapper // nil unless standalone
	cssInjector     pipeline.CSSInjector
	baseURL         *url.URL
	stylesheet      string
}

// NewFormatter creates a Formatter. It fails when a named style, highlight
// style, asset directory or base URL cannot be used.
func NewFormatter(opts ...Option) (*Formatter, error) {
	cfg := defaultFormatterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	f := &Formatter{
		cfg:           cfg,
		preprocessor:  &pipeline.WikiPreprocessor{},
		tocExpander:   pipeline.NewTOCExpansion(),
		macroExpander: pipeline.NewMacroExpansion(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	convOpts := []pipeline.ConverterOption{
		pipeline.WithHardWraps(cfg.hardWraps),
		pipeline.WithXHTML(cfg.xhtml),
		pipeline.WithUnsafe(cfg.unsafe),
	}

	var highlighter Highlighter
	if cfg.highlight {
		highlighter = cfg.highlighter
		if highlighter == nil {
			chroma, err := pipeline.NewChromaHighlighter(cfg.highlightStyle)
			if err != nil {
				return nil, err
			}
			highlighter = chroma
		}

		inline := cfg.inlineHighlight && cfg.highlighter == nil
		if inline {
			style := cfg.highlightStyle
			if style == "" {
				style = pipeline.DefaultHighlightStyle
			}
			convOpts = append(convOpts, pipeline.WithInlineHighlighting(strings.ToLower(style)))
		}

		var guesser pipeline.LanguageGuesser
		if cfg.guessLanguage {
			guesser = langdetect.New()
		}
		// Inline mode has already highlighted tagged blocks; the pass is
		// still needed to guess untagged ones.
		if !inline || guesser != nil {
			f.codeHighlighter = pipeline.NewCodeHighlighting(highlighter, guesser)
		}
	}
	f.htmlConverter = pipeline.NewGoldmarkConverter(convOpts...)

	if cfg.baseURL != "" {
		base, err := pipeline.ParseBaseURL(cfg.baseURL)
		if err != nil {
			return nil, err
		}
		f.baseURL = base
	}

	if cfg.standalone {
		if err := f.initStandalone(highlighter); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// initStandalone loads the document template and builds the stylesheet:
// the selected style followed by the highlighter's token classes.
func (f *Formatter) initStandalone(highlighter Highlighter) error {
	loader, err := assets.NewAssetResolver(f.cfg.assetPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	tmpl, err := loader.LoadTemplate(assets.DocumentTemplateName)
	if err != nil {
		return fmt.Errorf("loading document template: %w", err)
	}
	wrapper, err := pipeline.NewDocumentWrapping(tmpl)
	if err != nil {
		return err
	}
	f.documentWrapper = wrapper

	var css strings.Builder
	style, err := resolveStyle(loader, f.cfg.styleInput)
	if err != nil {
		return err
	}
	css.WriteString(style)

	if cw, ok := highlighter.(cssWriter); ok {
		if css.Len() > 0 {
			css.WriteString("\n")
		}
		if err := cw.WriteCSS(&css); err != nil {
			return fmt.Errorf("writing highlight stylesheet: %w", err)
		}
	}
	f.stylesheet = css.String()
	return nil
}

// resolveStyle returns the CSS for a style name or file path. An empty
// input selects the default embedded style.
func resolveStyle(loader assets.AssetLoader, input string) (string, error) {
	if input == "" {
		input = assets.DefaultStyleName
	}
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}
	css, err := loader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}

// Stylesheet returns the CSS embedded in standalone documents, or "" when
// standalone mode is off.
func (f *Formatter) Stylesheet() string {
	return f.stylesheet
}

// Format runs the pipeline: preprocessing, rendering with anchor
// resolution, TOC expansion, macro expansion, highlighting, then the
// optional link rewriting and document wrapping.
//
// Soft problems are reported in Result.Warnings. Any stage failure, and
// any panic, is returned as an error. With WithUnsafeHTML(true), Format
// applied to its own output returns it unchanged and resolves no macro.
func (f *Formatter) Format(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: internal error: %v", ErrRender, r)
		}
	}()

	if input.Markdown == "" {
		return nil, ErrEmptyMarkdown
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx)

	mdContent := f.preprocessor.PreprocessMarkdown(ctx, input.Markdown)

	htmlContent, state, err := f.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	htmlContent = f.tocExpander.ExpandTOC(ctx, htmlContent, state)

	resolver := input.Macros
	if resolver == nil {
		resolver = f.cfg.macros
	}
	htmlContent = f.macroExpander.ExpandMacros(ctx, htmlContent, resolver)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.codeHighlighter != nil {
		htmlContent, err = f.codeHighlighter.HighlightCode(ctx, htmlContent)
		if err != nil {
			return nil, fmt.Errorf("highlighting code: %w", err)
		}
	}

	if f.baseURL != nil {
		htmlContent, err = pipeline.RewriteRelativeLinks(htmlContent, f.baseURL)
		if err != nil {
			return nil, fmt.Errorf("rewriting links: %w", err)
		}
	}

	if f.documentWrapper != nil {
		htmlContent, err = f.documentWrapper.WrapDocument(ctx, htmlContent, &pipeline.DocumentData{
			Title:    input.Title,
			Lang:     f.cfg.lang,
			Headings: state.Headings,
		})
		if err != nil {
			return nil, fmt.Errorf("wrapping document: %w", err)
		}
		htmlContent = f.cssInjector.InjectCSS(ctx, htmlContent, f.stylesheet)
	}

	logger.Debug("formatted document",
		logging.FieldHeadings, len(state.Headings),
		logging.FieldWarnings, len(state.Warnings))

	return &Result{
		HTML:        htmlContent,
		Warnings:    state.Warnings,
		Headings:    state.Headings,
		FootnoteIDs: state.FoundFootnoteIDs,
	}, nil
}

// ToHTML formats input and returns the markup. It never fails: on any
// error the result is a preformatted block holding the error message and
// the original text, unmodified. Empty input renders as "".
func (f *Formatter) ToHTML(ctx context.Context, input Input) string {
	if input.Markdown == "" {
		return ""
	}
	result, err := f.Format(ctx, input)
	if err != nil {
		logging.FromContext(ctx).Warn("formatting failed, returning fallback document",
			logging.FieldError, err)
		return FallbackHTML(err, input.Markdown)
	}
	return result.HTML
}

// FallbackHTML is the document ToHTML returns when formatting fails. The
// message is escaped; the original text is kept byte for byte.
func FallbackHTML(err error, original string) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return fallbackPrefix + html.EscapeString(msg) + "\noriginal text: \n" + original + "</pre>"
}

// IsFallback reports whether markup is a ToHTML fallback document.
func IsFallback(markup string) bool {
	return strings.HasPrefix(markup, fallbackPrefix)
}
