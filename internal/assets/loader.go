package assets

import (
	"fmt"
	"strings"
)

// AssetLoader loads CSS styles and HTML templates by name.
type AssetLoader interface {
	// LoadStyle returns ErrStyleNotFound for unknown names.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns ErrTemplateNotFound for unknown names.
	LoadTemplate(name string) (string, error)
}

// maxAssetNameLength bounds names taken from config files and flags.
const maxAssetNameLength = 64

// ValidateAssetName rejects names that are empty, too long, or contain
// path separators or dots.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLength:
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidAssetName, maxAssetNameLength)
	case strings.ContainsAny(name, "/\\.") || strings.ContainsFunc(name, isSpaceOrControl):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r == 0x7f
}
