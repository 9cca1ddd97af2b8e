package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestIsMarkdown(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"page.md":         true,
		"PAGE.MD":         true,
		"notes.markdown":  true,
		"home.wiki":       true,
		"dir/a.mdown":     true,
		"page.html":       false,
		"README":          false,
		"archive.md.bak":  false,
		".hidden/page.md": true,
	}
	for path, want := range tests {
		if got := IsMarkdown(path); got != want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext     string
		wantErr error
	}{
		{"html", nil},
		{"", ErrExtensionEmpty},
		{"../html", ErrInvalidExtension},
		{"a\\b", ErrInvalidExtension},
		{"ht\x00ml", ErrInvalidExtension},
	}
	for _, tt := range tests {
		if err := ValidateExtension(tt.ext); !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidateExtension(%q) = %v, want %v", tt.ext, err, tt.wantErr)
		}
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       string
		inputRoot string
		outDir    string
		ext       string
		want      string
		wantErr   error
	}{
		{
			name: "next to source",
			src:  filepath.Join("docs", "page.md"),
			ext:  "html",
			want: filepath.Join("docs", "page.html"),
		},
		{
			name:   "flat into output directory",
			src:    filepath.Join("docs", "page.md"),
			outDir: "out",
			ext:    ".html",
			want:   filepath.Join("out", "page.html"),
		},
		{
			name:      "tree mirrored under output directory",
			src:       filepath.Join("docs", "guide", "intro.markdown"),
			inputRoot: "docs",
			outDir:    "site",
			ext:       "html",
			want:      filepath.Join("site", "guide", "intro.html"),
		},
		{
			name:      "source outside root",
			src:       filepath.Join("other", "page.md"),
			inputRoot: "docs",
			outDir:    "site",
			ext:       "html",
			wantErr:   ErrOutsideRoot,
		},
		{
			name:    "empty extension",
			src:     "page.md",
			ext:     "",
			wantErr: ErrExtensionEmpty,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := OutputPath(tt.src, tt.inputRoot, tt.outDir, tt.ext)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "page.html")

	if err := WriteFileAtomic(path, "<p>one</p>"); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFileAtomic(path, "<p>two</p>"); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "<p>two</p>" {
		t.Errorf("content = %q", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.md")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists(file) = false")
	}
	if FileExists(dir) {
		t.Error("FileExists(dir) = true")
	}
	if FileExists(filepath.Join(dir, "missing")) {
		t.Error("FileExists(missing) = true")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"wiki":            false,
		"my-style":        false,
		"custom.css":      true,
		"./custom":        true,
		"C:\\styles\\a":   true,
		"/abs/style.css":  true,
		"../shared/a.CSS": true,
	}
	for s, want := range tests {
		if got := IsFilePath(s); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", s, got, want)
		}
	}
}
