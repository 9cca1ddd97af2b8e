package pipeline

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/alnah/go-mdextra/internal/logging"
)

// {{name}}, {{name(a, b)}} and the escaped form !{{name}}.
// Captures: 1=escape marker, 2=token without marker, 3=name, 5=raw args.
var macroPattern = regexp.MustCompile(`(!)?(\{\{(\w+)(\(([^}]*)\))?\}\})`)

// MacroResolver produces the markup for one macro call. An empty result
// leaves the token in place; an error is rendered as an inline notice.
type MacroResolver interface {
	ResolveMacro(name string, args []string) (string, error)
}

// MacroResolverFunc adapts a function to MacroResolver.
type MacroResolverFunc func(name string, args []string) (string, error)

// ResolveMacro calls f.
func (f MacroResolverFunc) ResolveMacro(name string, args []string) (string, error) {
	return f(name, args)
}

// MacroExpander defines the contract for macro token expansion.
type MacroExpander interface {
	ExpandMacros(ctx context.Context, htmlContent string, resolver MacroResolver) string
}

// MacroExpansion expands macro tokens in rendered markup.
type MacroExpansion struct{}

// NewMacroExpansion creates a new macro expander.
func NewMacroExpansion() *MacroExpansion {
	return &MacroExpansion{}
}

// ExpandMacros replaces every macro token in a single left-to-right pass.
// The resolver is called synchronously, once per unescaped token, and its
// output is not scanned again. A nil resolver leaves unescaped tokens as
// they are.
func (m *MacroExpansion) ExpandMacros(ctx context.Context, htmlContent string, resolver MacroResolver) string {
	if ctx.Err() != nil || !strings.Contains(htmlContent, "{{") {
		return htmlContent
	}
	logger := logging.FromContext(ctx)

	matches := macroPattern.FindAllStringSubmatchIndex(htmlContent, -1)
	if len(matches) == 0 {
		return htmlContent
	}

	var sb strings.Builder
	sb.Grow(len(htmlContent))
	last := 0
	for _, loc := range matches {
		sb.WriteString(htmlContent[last:loc[0]])
		last = loc[1]

		token := htmlContent[loc[0]:loc[1]]
		if loc[2] >= 0 {
			sb.WriteString(htmlContent[loc[4]:loc[5]])
			continue
		}
		if resolver == nil {
			sb.WriteString(token)
			continue
		}

		name := strings.ToLower(htmlContent[loc[6]:loc[7]])
		var args []string
		if loc[10] >= 0 {
			args = splitMacroArgs(htmlContent[loc[10]:loc[11]])
		}

		out, err := callResolver(resolver, name, args)
		switch {
		case err != nil:
			logger.Debug("macro failed",
				logging.FieldMacro, name,
				logging.FieldError, err)
			sb.WriteString(macroErrorHTML(name, err))
		case out == "":
			logger.Debug("macro produced nothing", logging.FieldMacro, name)
			sb.WriteString(token)
		default:
			logger.Debug("expanded macro",
				logging.FieldMacro, name,
				logging.FieldArgs, len(args))
			sb.WriteString(out)
		}
	}
	sb.WriteString(htmlContent[last:])
	return sb.String()
}

// Compile-time interface check.
var _ MacroExpander = (*MacroExpansion)(nil)

// splitMacroArgs splits a raw argument list on commas. Arguments are
// trimmed and have HTML entities decoded, since the text has already
// been rendered. An empty list gives no arguments.
func splitMacroArgs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	args := make([]string, len(parts))
	for i, p := range parts {
		args[i] = strings.TrimSpace(html.UnescapeString(p))
	}
	return args
}

// callResolver invokes the resolver, turning a panic into an error.
func callResolver(resolver MacroResolver, name string, args []string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return resolver.ResolveMacro(name, args)
}

// macroErrorHTML is the inline notice shown in place of a failed macro.
func macroErrorHTML(name string, err error) string {
	return `<div class="flash error">Error executing the <strong>` +
		html.EscapeString(name) + `</strong> macro (` +
		html.EscapeString(err.Error()) + `)</div>`
}
