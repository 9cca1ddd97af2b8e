// Package macros provides a macro registry for {{name(args)}} tokens: the
// built-in date and version macros plus user macros written as text/template
// bodies.
package macros

import (
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/alnah/go-mdextra/internal/dateutil"
)

// Sentinel errors for macro registration and execution.
var (
	ErrInvalidName     = errors.New("invalid macro name")
	ErrInvalidTemplate = errors.New("invalid macro template")
	ErrTooManyArgs     = errors.New("too many macro arguments")
)

// Func computes the markup for one call. args are already entity-decoded.
type Func func(args []string) (string, error)

// TemplateData is the dot value of a user macro template. Args holds the
// HTML-escaped arguments and RawArgs the decoded ones.
type TemplateData struct {
	Name    string
	Args    []string
	RawArgs []string
}

// Registry maps lower-case macro names to implementations. It is safe for
// concurrent use.
type Registry struct {
	mu         sync.RWMutex
	funcs      map[string]Func
	now        func() time.Time
	dateFormat string
	version    string
}

// Option configures a Registry.
type Option func(*Registry)

// WithDateFormat sets the pattern date() uses when called without arguments.
func WithDateFormat(format string) Option {
	return func(r *Registry) { r.dateFormat = format }
}

// WithVersion sets the text version() returns.
func WithVersion(version string) Option {
	return func(r *Registry) { r.version = version }
}

// WithClock replaces time.Now for date().
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New returns a registry holding the built-in macros.
func New(opts ...Option) *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.funcs["date"] = r.date
	r.funcs["version"] = r.versionMacro
	return r
}

// Register adds or replaces the macro called name.
func (r *Registry) Register(name string, fn Func) error {
	key, err := normalizeName(name)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.funcs[key] = fn
	r.mu.Unlock()
	return nil
}

// RegisterTemplate parses body as a text/template and registers it as a
// macro. The template sees a TemplateData.
func (r *Registry) RegisterTemplate(name, body string) error {
	key, err := normalizeName(name)
	if err != nil {
		return err
	}
	tmpl, err := template.New(key).Option("missingkey=zero").Parse(body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, key, err)
	}

	return r.Register(key, func(args []string) (string, error) {
		escaped := make([]string, len(args))
		for i, a := range args {
			escaped[i] = html.EscapeString(a)
		}
		var sb strings.Builder
		if err := tmpl.Execute(&sb, TemplateData{Name: key, Args: escaped, RawArgs: args}); err != nil {
			return "", err
		}
		return sb.String(), nil
	})
}

// RegisterTemplates registers every name/body pair, stopping at the first
// invalid one.
func (r *Registry) RegisterTemplates(templates map[string]string) error {
	for name, body := range templates {
		if err := r.RegisterTemplate(name, body); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the registered macro names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ResolveMacro runs the macro called name. Unknown names give "" with no
// error, which leaves the token in the text.
func (r *Registry) ResolveMacro(name string, args []string) (string, error) {
	r.mu.RLock()
	fn, ok := r.funcs[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return "", nil
	}
	return fn(args)
}

// date([format]) renders the current date.
func (r *Registry) date(args []string) (string, error) {
	if err := maxArgs(args, 1); err != nil {
		return "", err
	}
	format := r.dateFormat
	if len(args) == 1 && args[0] != "" {
		format = args[0]
	}
	out, err := dateutil.Format(r.now(), format)
	if err != nil {
		return "", err
	}
	return html.EscapeString(out), nil
}

func (r *Registry) versionMacro(args []string) (string, error) {
	if err := maxArgs(args, 1); err != nil {
		return "", err
	}
	return html.EscapeString(r.version), nil
}

func maxArgs(args []string, n int) error {
	if len(args) > n {
		return fmt.Errorf("%w: got %d, want at most %d", ErrTooManyArgs, len(args), n)
	}
	return nil
}

func normalizeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	for _, c := range name {
		if c != '_' && (c < '0' || c > '9') && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return strings.ToLower(name), nil
}
