package main

import (
	"context"
	"errors"
	"os"

	mdextra "github.com/alnah/go-mdextra"
	"github.com/alnah/go-mdextra/internal/assets"
	"github.com/alnah/go-mdextra/internal/config"
	"github.com/alnah/go-mdextra/internal/dateutil"
	"github.com/alnah/go-mdextra/internal/macros"
)

// Exit codes for the mdextra CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess   = 0 // Successful conversion
	ExitGeneral   = 1 // General/unexpected error
	ExitUsage     = 2 // Invalid flags, config, or validation
	ExitIO        = 3 // File not found, permission denied
	ExitRender    = 4 // A document could not be formatted
	ExitCancelled = 5 // Interrupted or timed out
)

// exitCodeFor returns the appropriate exit code for an error.
// Callers must wrap with %w so errors.Is sees the sentinels.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExitCancelled
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, macros.ErrInvalidName) ||
		errors.Is(err, macros.ErrInvalidTemplate) ||
		errors.Is(err, mdextra.ErrEmptyMarkdown) ||
		errors.Is(err, mdextra.ErrInvalidBaseURL) ||
		errors.Is(err, mdextra.ErrStyleNotFound) ||
		errors.Is(err, mdextra.ErrHighlightStyleNotFound) ||
		errors.Is(err, mdextra.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMarkdownFiles) {
		return ExitIO
	}

	// Formatting errors (exit 4)
	if errors.Is(err, mdextra.ErrRender) ||
		errors.Is(err, mdextra.ErrHTMLConversion) ||
		errors.Is(err, mdextra.ErrHighlight) ||
		errors.Is(err, mdextra.ErrDocumentRender) {
		return ExitRender
	}

	return ExitGeneral
}
