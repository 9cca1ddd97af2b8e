package mdextra

import (
	"errors"

	"github.com/alnah/go-mdextra/internal/assets"
	"github.com/alnah/go-mdextra/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown = errors.New("markdown content cannot be empty")
	ErrRender        = errors.New("rendering failed")
	ErrPoolClosed    = errors.New("formatter pool is closed")

	// Stage errors, matchable with errors.Is on anything Format returns.
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrHighlight      = pipeline.ErrHighlight
	ErrInvalidBaseURL = pipeline.ErrInvalidBaseURL
	ErrDocumentRender = pipeline.ErrDocumentRender

	// Construction errors from NewFormatter.
	ErrHighlightStyleNotFound = pipeline.ErrStyleNotFound
	ErrStyleNotFound          = assets.ErrStyleNotFound
	ErrInvalidAssetPath       = errors.New("invalid asset path")
)
