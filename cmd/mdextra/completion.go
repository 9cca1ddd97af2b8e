package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Desc     string
	TakesArg bool
	Values   []string // enum values
	FileGlob string   // e.g. "*.yaml"
	IsDir    bool
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// completionMeta holds completion hints. Names, types and descriptions
// come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"log-level":  {Values: []string{"debug", "info", "warn", "error"}},
	"color":      {Values: []string{"auto", "always", "never"}},
	"config":     {FileGlob: "*.yaml"},
	"style":      {FileGlob: "*.css"},
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlagsFromFlagSet builds flag definitions from fs.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:     f.Name,
			Short:    f.Shorthand,
			Desc:     f.Usage,
			TakesArg: f.Value.Type() != "bool",
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			fd.Values = meta.Values
			fd.FileGlob = meta.FileGlob
			fd.IsDir = meta.IsDir
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "convert", Desc: "Convert wiki files to HTML", Flags: extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{}))},
		{Name: "config", Desc: "Print the effective configuration", Flags: extractFlagsFromFlagSet(newConvertFlagSet(&convertFlags{}))},
		{Name: "styles", Desc: "List document and highlight styles"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes a completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	commands := getCommands()
	switch shell {
	case ShellBash:
		return generateBash(w, commands)
	case ShellZsh:
		return generateZsh(w, commands)
	case ShellFish:
		return generateFish(w, commands)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func commandNames(commands []commandDef) string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for mdextra\n")
	b.WriteString("_mdextra_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", commandNames(commands))
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range commands {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        case \"$prev\" in\n")
		var words []string
		for _, f := range c.Flags {
			words = append(words, "--"+f.Long)
			names := "--" + f.Long
			if f.Short != "" {
				names = "-" + f.Short + "|" + names
			}
			switch {
			case len(f.Values) > 0:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")); return ;;\n", names, strings.Join(f.Values, " "))
			case f.IsDir:
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", names)
			case f.FileGlob != "":
				fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -X '!%s' -- \"$cur\")); return ;;\n", names, f.FileGlob)
			}
		}
		b.WriteString("        esac\n")
		fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -f -- \"$cur\"))\n", strings.Join(words, " "))
		b.WriteString("        ;;\n")
	}
	b.WriteString("    help)\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", commandNames(commands))
	b.WriteString("        ;;\n")
	b.WriteString("    completion)\n")
	b.WriteString("        COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\"))\n")
	b.WriteString("        ;;\n")
	b.WriteString("    esac\n}\n")
	b.WriteString("complete -F _mdextra_completions mdextra\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef mdextra\n\n")
	b.WriteString("_mdextra() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range commands {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "            '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		b.WriteString("            '*:input:_files -g \"*.(md|markdown|mdown|wiki)\"'\n")
		b.WriteString("        ;;\n")
	}
	b.WriteString("    completion)\n")
	b.WriteString("        _values 'shell' bash zsh fish\n")
	b.WriteString("        ;;\n")
	b.WriteString("    esac\n}\n\n")
	b.WriteString("_mdextra \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshAction(f flagDef) string {
	switch {
	case !f.TakesArg:
		return ""
	case len(f.Values) > 0:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case f.IsDir:
		return ":directory:_directories"
	case f.FileGlob != "":
		return ":file:_files -g \"" + f.FileGlob + "\""
	default:
		return ":value:"
	}
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	return strings.ReplaceAll(s, "]", "\\]")
}

func generateFish(w io.Writer, commands []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for mdextra\n")
	b.WriteString("function __fish_mdextra_needs_command\n")
	b.WriteString("    test (count (commandline -opc)) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_mdextra_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c mdextra -f\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c mdextra -n __fish_mdextra_needs_command -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range commands {
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c mdextra -n '__fish_mdextra_using_command %s' -l %s", c.Name, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch {
			case len(f.Values) > 0:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case f.IsDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			case f.TakesArg:
				b.WriteString(" -r -F")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishEscape(f.Desc))
		}
	}
	b.WriteString("complete -c mdextra -n '__fish_mdextra_using_command convert' -F\n")
	b.WriteString("complete -c mdextra -n '__fish_mdextra_using_command completion' -x -a 'bash zsh fish'\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdextra completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:   eval \"$(mdextra completion bash)\"            # ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:    eval \"$(mdextra completion zsh)\"             # ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:   mdextra completion fish > ~/.config/fish/completions/mdextra.fish")
}
