package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-mdextra/internal/config"
)

// envPrefix starts every recognised environment variable.
const envPrefix = "MDEXTRA_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // MDEXTRA_CONFIG
	Timeout    time.Duration // MDEXTRA_TIMEOUT
	LogLevel   string        // MDEXTRA_LOG_LEVEL

	// Tier 2 - I/O
	InputDir  string // MDEXTRA_INPUT_DIR
	OutputDir string // MDEXTRA_OUTPUT_DIR
	Workers   int    // MDEXTRA_WORKERS

	// Tier 3 - Rendering
	Style          string // MDEXTRA_STYLE
	HighlightStyle string // MDEXTRA_HIGHLIGHT_STYLE
	BaseURL        string // MDEXTRA_BASE_URL
	DateFormat     string // MDEXTRA_DATE_FORMAT
	Version        string // MDEXTRA_DOC_VERSION
}

// knownEnvVars lists valid MDEXTRA_* variables, for typo warnings.
var knownEnvVars = map[string]bool{
	"MDEXTRA_CONFIG":          true,
	"MDEXTRA_TIMEOUT":         true,
	"MDEXTRA_LOG_LEVEL":       true,
	"MDEXTRA_INPUT_DIR":       true,
	"MDEXTRA_OUTPUT_DIR":      true,
	"MDEXTRA_WORKERS":         true,
	"MDEXTRA_STYLE":           true,
	"MDEXTRA_HIGHLIGHT_STYLE": true,
	"MDEXTRA_BASE_URL":        true,
	"MDEXTRA_DATE_FORMAT":     true,
	"MDEXTRA_DOC_VERSION":     true,
}

// loadEnvConfig reads the MDEXTRA_* variables through getenv.
// Unparseable durations and counts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:     getenv("MDEXTRA_CONFIG"),
		LogLevel:       getenv("MDEXTRA_LOG_LEVEL"),
		InputDir:       getenv("MDEXTRA_INPUT_DIR"),
		OutputDir:      getenv("MDEXTRA_OUTPUT_DIR"),
		Style:          getenv("MDEXTRA_STYLE"),
		HighlightStyle: getenv("MDEXTRA_HIGHLIGHT_STYLE"),
		BaseURL:        getenv("MDEXTRA_BASE_URL"),
		DateFormat:     getenv("MDEXTRA_DATE_FORMAT"),
		Version:        getenv("MDEXTRA_DOC_VERSION"),
	}

	if timeout := getenv("MDEXTRA_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := getenv("MDEXTRA_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	return cfg
}

// warnUnknownEnvVars logs a warning for each unrecognised MDEXTRA_* name.
func warnUnknownEnvVars(logger *log.Logger, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			logger.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig fills config values the file left empty.
// Precedence: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.LogLevel != "" && (cfg.Log.Level == "" || cfg.Log.Level == config.DefaultConfig().Log.Level) {
		cfg.Log.Level = env.LogLevel
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Style != "" && cfg.CSS.Style == "" {
		cfg.CSS.Style = env.Style
	}
	if env.HighlightStyle != "" && cfg.Highlight.Style == "" {
		cfg.Highlight.Style = env.HighlightStyle
	}
	if env.BaseURL != "" && cfg.Links.BaseURL == "" {
		cfg.Links.BaseURL = env.BaseURL
	}
	if env.DateFormat != "" && cfg.Macros.DateFormat == "" {
		cfg.Macros.DateFormat = env.DateFormat
	}
	if env.Version != "" && cfg.Macros.Version == "" {
		cfg.Macros.Version = env.Version
	}
}

// resolveWorkers picks the worker count: flag, then env, then auto (0).
func resolveWorkers(flagWorkers int, env *envConfig) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return env.Workers
}
