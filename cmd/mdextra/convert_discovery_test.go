package main

// Notes:
// - discoverFiles: single files, trees with output mirroring, hidden
//   directories, extension filtering and empty trees.
// - resolveOutputPath / validateWorkers: table-driven edge cases.

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	mdextra "github.com/alnah/go-mdextra"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - File and tree discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "page.md", "# Page")

	tests := []struct {
		name   string
		output string
		want   string
	}{
		{name: "next to source", output: "", want: filepath.Join(dir, "page.html")},
		{name: "into directory", output: filepath.Join(dir, "out"), want: filepath.Join(dir, "out", "page.html")},
		{name: "explicit file", output: filepath.Join(dir, "index.html"), want: filepath.Join(dir, "index.html")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := discoverFiles(src, tt.output)
			if err != nil {
				t.Fatalf("discoverFiles() error = %v", err)
			}
			if len(files) != 1 || files[0].InputPath != src || files[0].OutputPath != tt.want {
				t.Errorf("discoverFiles() = %+v, want output %s", files, tt.want)
			}
		})
	}
}

func TestDiscoverFiles_Tree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "sub/b.markdown", "b")
	writeFile(t, dir, "sub/deeper/c.wiki", "c")
	writeFile(t, dir, "notes.txt", "skip")
	writeFile(t, dir, ".git/d.md", "hidden")

	out := filepath.Join(t.TempDir(), "site")
	files, err := discoverFiles(dir, out)
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}

	var got []string
	for _, f := range files {
		rel, err := filepath.Rel(out, f.OutputPath)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, filepath.ToSlash(rel))
	}
	sort.Strings(got)

	want := []string{"a.html", "sub/b.html", "sub/deeper/c.html"}
	if len(got) != len(want) {
		t.Fatalf("outputs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("outputs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscoverFiles_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	txt := writeFile(t, dir, "notes.txt", "x")
	empty := filepath.Join(dir, "empty")
	if err := os.Mkdir(empty, 0o750); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "tree/a.md", "a")

	tests := []struct {
		name    string
		input   string
		output  string
		wantErr error
	}{
		{name: "missing path", input: filepath.Join(dir, "nope.md"), wantErr: os.ErrNotExist},
		{name: "wrong extension", input: txt, wantErr: ErrInvalidExtension},
		{name: "empty tree", input: empty, wantErr: ErrNoMarkdownFiles},
		{name: "tree into a file", input: filepath.Join(dir, "tree"), output: "out.html", wantErr: ErrInvalidExtension},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := discoverFiles(tt.input, tt.output)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("discoverFiles() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Worker bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{n: 0},
		{n: 1},
		{n: mdextra.MaxPoolSize},
		{n: -1, wantErr: true},
		{n: mdextra.MaxPoolSize + 1, wantErr: true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if tt.wantErr != (err != nil) {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}
