package main

// Notes:
// - loadEnvConfig: every variable, plus invalid timeout and worker values
//   which are ignored rather than reported.
// - warnUnknownEnvVars: typo detection; known variables stay quiet.
// - applyEnvConfig: env fills empty config values only.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdextra/internal/config"
	"github.com/alnah/go-mdextra/internal/logging"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"MDEXTRA_CONFIG":          "/etc/wiki.yaml",
		"MDEXTRA_TIMEOUT":         "2m",
		"MDEXTRA_LOG_LEVEL":       "debug",
		"MDEXTRA_INPUT_DIR":       "/in",
		"MDEXTRA_OUTPUT_DIR":      "/out",
		"MDEXTRA_WORKERS":         "4",
		"MDEXTRA_STYLE":           "wiki",
		"MDEXTRA_HIGHLIGHT_STYLE": "monokai",
		"MDEXTRA_BASE_URL":        "https://wiki.example.com/",
		"MDEXTRA_DATE_FORMAT":     "long",
		"MDEXTRA_DOC_VERSION":     "1.2.0",
	}
	cfg := loadEnvConfig(func(k string) string { return vars[k] })

	want := envConfig{
		ConfigPath:     "/etc/wiki.yaml",
		Timeout:        2 * time.Minute,
		LogLevel:       "debug",
		InputDir:       "/in",
		OutputDir:      "/out",
		Workers:        4,
		Style:          "wiki",
		HighlightStyle: "monokai",
		BaseURL:        "https://wiki.example.com/",
		DateFormat:     "long",
		Version:        "1.2.0",
	}
	if *cfg != want {
		t.Errorf("loadEnvConfig() = %+v\nwant %+v", *cfg, want)
	}
}

func TestLoadEnvConfig_InvalidValuesIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout string
		workers string
	}{
		{name: "garbage", timeout: "soon", workers: "many"},
		{name: "negative", timeout: "-5s", workers: "-2"},
		{name: "zero", timeout: "0s", workers: "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vars := map[string]string{"MDEXTRA_TIMEOUT": tt.timeout, "MDEXTRA_WORKERS": tt.workers}
			cfg := loadEnvConfig(func(k string) string { return vars[k] })
			if cfg.Timeout != 0 || cfg.Workers != 0 {
				t.Errorf("Timeout = %v, Workers = %d, want zero values", cfg.Timeout, cfg.Workers)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "warn", logging.ColorNever)

	warnUnknownEnvVars(logger, []string{
		"MDEXTRA_STYLE=wiki",
		"MDEXTRA_STLYE=wiki",
		"HOME=/root",
	})

	out := buf.String()
	if !strings.Contains(out, "MDEXTRA_STLYE") {
		t.Errorf("expected warning for MDEXTRA_STLYE, got %q", out)
	}
	if strings.Contains(out, "MDEXTRA_STYLE") || strings.Contains(out, "HOME") {
		t.Errorf("known or foreign variables should not warn, got %q", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Env fills gaps, config file wins
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		LogLevel:       "debug",
		InputDir:       "/env-in",
		OutputDir:      "/env-out",
		Style:          "wiki",
		HighlightStyle: "monokai",
		BaseURL:        "https://env.example.com/",
		DateFormat:     "us",
		Version:        "env",
	}

	t.Run("fills empty values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(env, cfg)

		if cfg.Log.Level != "debug" || cfg.Input.DefaultDir != "/env-in" || cfg.Output.DefaultDir != "/env-out" {
			t.Errorf("I/O or log not applied: %+v", cfg)
		}
		if cfg.CSS.Style != "wiki" || cfg.Highlight.Style != "monokai" || cfg.Links.BaseURL != "https://env.example.com/" {
			t.Errorf("rendering values not applied: %+v", cfg)
		}
		if cfg.Macros.DateFormat != "us" || cfg.Macros.Version != "env" {
			t.Errorf("macro values not applied: %+v", cfg.Macros)
		}
	})

	t.Run("config values win", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Log.Level = "error"
		cfg.CSS.Style = "minimal"
		cfg.Macros.Version = "file"
		applyEnvConfig(env, cfg)

		if cfg.Log.Level != "error" || cfg.CSS.Style != "minimal" || cfg.Macros.Version != "file" {
			t.Errorf("config values overridden: level=%q style=%q version=%q", cfg.Log.Level, cfg.CSS.Style, cfg.Macros.Version)
		}
	})
}

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	env := &envConfig{Workers: 3}
	if got := resolveWorkers(5, env); got != 5 {
		t.Errorf("flag should win, got %d", got)
	}
	if got := resolveWorkers(0, env); got != 3 {
		t.Errorf("env should apply, got %d", got)
	}
	if got := resolveWorkers(0, &envConfig{}); got != 0 {
		t.Errorf("auto expected, got %d", got)
	}
}
