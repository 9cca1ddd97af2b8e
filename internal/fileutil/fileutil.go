// Package fileutil provides the path and file helpers used by the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty   = errors.New("extension cannot be empty")
	ErrInvalidExtension = errors.New("extension contains path separator or null byte")
	ErrOutsideRoot      = errors.New("path is outside the input root")
)

// markdownExtensions lists the source extensions picked up in directories.
var markdownExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".wiki":     true,
}

// IsMarkdown reports whether path has a Markdown source extension.
func IsMarkdown(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// ValidateExtension checks that extension is usable in a file name.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrInvalidExtension
	}
	return nil
}

// ReplaceExtension swaps the extension of path for ext ("html" or ".html").
func ReplaceExtension(path, ext string) string {
	ext = "." + strings.TrimPrefix(ext, ".")
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// OutputPath maps src to its output file. With an empty outDir the output
// sits next to the source. Otherwise src's position below inputRoot is
// mirrored under outDir; an empty inputRoot places the file directly in outDir.
func OutputPath(src, inputRoot, outDir, ext string) (string, error) {
	if err := ValidateExtension(strings.TrimPrefix(ext, ".")); err != nil {
		return "", err
	}
	if outDir == "" {
		return ReplaceExtension(src, ext), nil
	}
	if inputRoot == "" {
		return filepath.Join(outDir, ReplaceExtension(filepath.Base(src), ext)), nil
	}

	rel, err := filepath.Rel(inputRoot, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, src)
	}
	return filepath.Join(outDir, ReplaceExtension(rel, ext)), nil
}

// WriteFileAtomic writes content to a temporary file beside path and
// renames it into place, creating parent directories as needed.
func WriteFileAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".mdextra-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmpFile.WriteString(content); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil { // #nosec G302 -- output is a public HTML page
		cleanup()
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if s looks like a path rather than a name,
// that is when it contains a separator or ends in ".css".
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(strings.ToLower(s), ".css")
}
