package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Colour modes accepted by NewWriter.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var defaultLogger = sync.OnceValue(func() *log.Logger {
	return NewWriter(os.Stderr, "info", ColorAuto)
})

// NewWriter creates a logger writing to w. Valid levels: "debug", "info",
// "warn", "error"; anything else is info. Terminals get the coloured text
// format; pipes and files get logfmt so warnings stay greppable.
func NewWriter(w io.Writer, level, colorMode string) *log.Logger {
	color := ColorEnabled(colorMode, w)

	opts := log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
		Formatter:       log.TextFormatter,
	}
	if !color {
		opts.Formatter = log.LogfmtFormatter
	}

	logger := log.NewWithOptions(w, opts)
	if color {
		logger.SetStyles(levelStyles())
	}
	SetLoggerLevel(logger, level)
	return logger
}

// SetLoggerLevel parses level and applies it to logger.
func SetLoggerLevel(logger *log.Logger, level string) {
	logger.SetLevel(ParseLevel(level))
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// levelStyles highlights render warnings, the level users see most.
func levelStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Padding(0, 1).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("11"))
	styles.Keys[FieldPath] = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	return styles
}

// ColorEnabled reports whether output to w should be coloured.
// In auto mode colour requires a terminal and an unset NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Default returns the package-level stderr logger at info level.
func Default() *log.Logger {
	return defaultLogger()
}
