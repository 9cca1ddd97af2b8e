package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdextra <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert Markdown Extra wiki files to HTML")
	fmt.Fprintln(w, "  config      Print the effective configuration")
	fmt.Fprintln(w, "  styles      List document and highlight styles")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "'mdextra FILE.md' and 'mdextra DIR' are short for 'mdextra convert ...'.")
	fmt.Fprintln(w, "Run 'mdextra help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdextra convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Markdown Extra wiki text to HTML.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w, "           (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output .html file or directory (stdin: default stdout)")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>          Overall timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --hard-wraps           Render newlines inside paragraphs as <br>")
	fmt.Fprintln(w, "      --html4                Emit HTML void tags instead of XHTML")
	fmt.Fprintln(w, "      --unsafe               Pass raw HTML through")
	fmt.Fprintln(w, "      --base-url <url>       Resolve relative links against this URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Highlighting:")
	fmt.Fprintln(w, "      --highlight-style <s>  Chroma style (see 'mdextra styles')")
	fmt.Fprintln(w, "      --inline-highlight     Highlight while rendering")
	fmt.Fprintln(w, "      --guess-lang           Guess the language of untagged blocks")
	fmt.Fprintln(w, "      --no-highlight         Disable code highlighting")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Macros:")
	fmt.Fprintln(w, "      --date-format <s>      Default format of {{date}}")
	fmt.Fprintln(w, "                             Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss")
	fmt.Fprintln(w, "                             Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "                             Use [text] to escape literals: [Updated] YYYY")
	fmt.Fprintln(w, "      --doc-version <s>      Value of {{version}}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "  -s, --standalone           Write full HTML documents with CSS")
	fmt.Fprintln(w, "      --title <s>            Document title (\"\" = first heading)")
	fmt.Fprintln(w, "      --lang <s>             Document language attribute")
	fmt.Fprintln(w, "      --style <name|path>    CSS style name or file (implies --standalone)")
	fmt.Fprintln(w, "      --asset-path <dir>     Custom asset directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show debug output and timing")
	fmt.Fprintln(w, "      --log-level <s>        debug, info, warn, error")
	fmt.Fprintln(w, "      --color <s>            auto, always, never")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MDEXTRA_CONFIG, MDEXTRA_TIMEOUT, MDEXTRA_LOG_LEVEL, MDEXTRA_INPUT_DIR,")
	fmt.Fprintln(w, "  MDEXTRA_OUTPUT_DIR, MDEXTRA_WORKERS, MDEXTRA_STYLE, MDEXTRA_HIGHLIGHT_STYLE,")
	fmt.Fprintln(w, "  MDEXTRA_BASE_URL, MDEXTRA_DATE_FORMAT, MDEXTRA_DOC_VERSION")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "config":
		fmt.Fprintln(env.Stdout, "Usage: mdextra config [convert flags]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Print the configuration convert would use, after the config file,")
		fmt.Fprintln(env.Stdout, "MDEXTRA_* variables and flags are applied, and the available macros.")
	case "styles":
		fmt.Fprintln(env.Stdout, "Usage: mdextra styles")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List the embedded document styles and the chroma highlight styles.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdextra version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdextra help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
