// Package config loads and validates mdextra YAML configuration files.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-mdextra/internal/dateutil"
	"github.com/alnah/go-mdextra/internal/fileutil"
	"github.com/alnah/go-mdextra/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength      = 4096
	MaxURLLength       = 2048
	MaxStyleLength     = 64
	MaxLangLength      = 35 // BCP 47
	MaxTitleLength     = 200
	MaxMacroCount      = 256
	MaxMacroBodyLength = 4096
)

// configDirName is the directory searched under the user config dir.
const configDirName = "go-mdextra"

var macroNamePattern = regexp.MustCompile(`^\w+$`)

// Config holds every option of a conversion run.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Render     RenderConfig     `yaml:"render"`
	Highlight  HighlightConfig  `yaml:"highlight"`
	Links      LinksConfig      `yaml:"links"`
	Macros     MacrosConfig     `yaml:"macros"`
	CSS        CSSConfig        `yaml:"css"`
	Standalone StandaloneConfig `yaml:"standalone"`
	Assets     AssetsConfig     `yaml:"assets"`
	Log        LogConfig        `yaml:"log"`
}

// InputConfig defines where sources are read from.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = must specify
}

// OutputConfig defines where results are written.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
}

// RenderConfig tunes the Markdown renderer.
type RenderConfig struct {
	HardWraps bool `yaml:"hardWraps"`
	XHTML     bool `yaml:"xhtml"`
	Unsafe    bool `yaml:"unsafe"` // pass raw HTML through
}

// HighlightConfig controls code highlighting.
type HighlightConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Style         string `yaml:"style"`         // chroma style, empty = github
	GuessLanguage bool   `yaml:"guessLanguage"` // untagged blocks
	Inline        bool   `yaml:"inline"`        // highlight while rendering
}

// LinksConfig controls link rewriting.
type LinksConfig struct {
	BaseURL string `yaml:"baseURL"`
}

// MacrosConfig defines the built-in macro settings and user macros.
type MacrosConfig struct {
	DateFormat string            `yaml:"dateFormat"`
	Version    string            `yaml:"version"`
	Templates  map[string]string `yaml:"templates"` // name -> text/template body
}

// CSSConfig selects the document stylesheet.
type CSSConfig struct {
	Style string `yaml:"style"` // asset name or .css path, empty = none
}

// StandaloneConfig wraps output in a full HTML document.
type StandaloneConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"` // empty = first heading
	Lang    string `yaml:"lang"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given:
// XHTML output with highlighting on and everything else off.
func DefaultConfig() *Config {
	return &Config{
		Render:    RenderConfig{XHTML: true},
		Highlight: HighlightConfig{Enabled: true},
		Log:       LogConfig{Level: "info"},
	}
}

// Validate checks lengths and values. It is called by LoadConfig and is
// exported for callers that build a Config by hand.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"highlight.style", c.Highlight.Style, MaxStyleLength},
		{"links.baseURL", c.Links.BaseURL, MaxURLLength},
		{"macros.version", c.Macros.Version, MaxTitleLength},
		{"css.style", c.CSS.Style, MaxPathLength},
		{"standalone.title", c.Standalone.Title, MaxTitleLength},
		{"standalone.lang", c.Standalone.Lang, MaxLangLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Links.BaseURL != "" {
		u, err := url.Parse(c.Links.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: links.baseURL: %q is not an absolute URL", ErrInvalidValue, c.Links.BaseURL)
		}
	}

	if c.Macros.DateFormat != "" {
		if _, err := dateutil.Layout(c.Macros.DateFormat); err != nil {
			return fmt.Errorf("macros.dateFormat: %w", err)
		}
	}
	if len(c.Macros.Templates) > MaxMacroCount {
		return fmt.Errorf("%w: macros.templates: %d macros (max %d)", ErrInvalidValue, len(c.Macros.Templates), MaxMacroCount)
	}
	for name, body := range c.Macros.Templates {
		if !macroNamePattern.MatchString(name) {
			return fmt.Errorf("%w: macros.templates: invalid macro name %q", ErrInvalidValue, name)
		}
		if err := validateFieldLength("macros.templates."+name, body, MaxMacroBodyLength); err != nil {
			return err
		}
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level: %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name. A value
// containing a path separator is read directly; a bare name is looked up
// as NAME.yaml or NAME.yml in the working directory, then in the user
// config directory. Sections absent from the file keep DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

func resolveConfigPath(name string) (string, error) {
	var candidates []string
	for _, ext := range []string{".yaml", ".yml"} {
		candidates = append(candidates, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range []string{".yaml", ".yml"} {
			candidates = append(candidates, filepath.Join(dir, configDirName, name+ext))
		}
	}

	for _, p := range candidates {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(candidates, ", "))
}
