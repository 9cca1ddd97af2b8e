package main

// Notes:
// - GenerateCompletion: we check each script for the markers its shell
//   needs. The scripts are not run in real shells.
// - getCommands: flags come from the convert FlagSet.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Shell completion script generation
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell        Shell
		wantContains []string
	}{
		{
			shell: ShellBash,
			wantContains: []string{
				"_mdextra_completions",
				"complete -F _mdextra_completions mdextra",
				"convert config styles version help completion",
				"--highlight-style",
				"debug info warn error",
			},
		},
		{
			shell: ShellZsh,
			wantContains: []string{
				"#compdef mdextra",
				"_arguments",
				"_describe 'command' commands",
				"'--output[output file or directory]:directory:_directories'",
				"'--hard-wraps[render newlines inside paragraphs as <br>]'",
			},
		},
		{
			shell: ShellFish,
			wantContains: []string{
				"complete -c mdextra",
				"__fish_mdextra_needs_command",
				"-l workers -s w",
				"-l color -x -a 'auto always never'",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	err := GenerateCompletion(&bytes.Buffer{}, Shell("powershell"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("error = %v, want ErrUnsupportedShell", err)
	}
}

// ---------------------------------------------------------------------------
// TestGetCommands - Command registry
// ---------------------------------------------------------------------------

func TestGetCommands(t *testing.T) {
	t.Parallel()

	commands := getCommands()
	if len(commands) == 0 || commands[0].Name != "convert" {
		t.Fatalf("first command should be convert, got %+v", commands)
	}

	byName := map[string]flagDef{}
	for _, f := range commands[0].Flags {
		byName[f.Long] = f
	}
	for _, name := range []string{"output", "workers", "config", "standalone", "style", "no-highlight"} {
		if _, ok := byName[name]; !ok {
			t.Errorf("convert flags missing --%s", name)
		}
	}
	if f := byName["standalone"]; f.TakesArg || f.Short != "s" {
		t.Errorf("--standalone = %+v, want boolean with -s", f)
	}
	if f := byName["config"]; !f.TakesArg || f.FileGlob != "*.yaml" {
		t.Errorf("--config = %+v, want file glob", f)
	}
}
