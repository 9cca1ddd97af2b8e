package langdetect_test

import (
	"testing"

	"github.com/alnah/go-mdextra/internal/langdetect"
)

func TestGuessLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bash shebang",
			content: "#!/bin/bash\necho hello",
			want:    "bash",
		},
		{
			name:    "python shebang",
			content: "#!/usr/bin/env python3\nprint('hi')",
			want:    "python",
		},
		{
			name:    "go package clause",
			content: "package main\n\nfunc main() {}\n",
			want:    "go",
		},
		{
			name:    "php opening tag",
			content: "<?php echo 1; ?>",
			want:    "php",
		},
		{
			name:    "html doctype",
			content: "<!DOCTYPE html>\n<html></html>",
			want:    "html",
		},
		{
			name:    "empty",
			content: "  \n ",
			want:    "",
		},
		{
			name:    "too short to classify",
			content: "x = 1",
			want:    "",
		},
	}

	g := langdetect.New()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := g.GuessLanguage(tt.content); got != tt.want {
				t.Errorf("GuessLanguage(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}
