// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strings"
)

// maxListed caps how many alternatives a hint names.
const maxListed = 12

// ForConfigNotFound suggests --config, or creating the config in the user
// config directory when one of the searched paths lives there.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/go-mdextra/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the embedded stylesheets.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + list(available) + "; or pass a path to a .css file")
}

// ForHighlightStyle lists some of the chroma styles.
func ForHighlightStyle(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("try one of: " + list(available))
}

// ForInvalidBaseURL explains the expected --base-url form.
func ForInvalidBaseURL() string {
	return format("base URL needs a scheme and host, e.g. https://wiki.example.com/pages/")
}

// ForDateFormat lists the date pattern tokens.
func ForDateFormat() string {
	return format("tokens: YYYY YY MMMM MMM MM M DD D HH mm ss; presets: iso, european, us, long; [text] is literal")
}

// ForTimeout returns a hint about increasing the timeout for large trees.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

func list(items []string) string {
	if len(items) > maxListed {
		return strings.Join(items[:maxListed], ", ") + ", ..."
	}
	return strings.Join(items, ", ")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
