package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/chroma/v2/styles"
	flag "github.com/spf13/pflag"

	mdextra "github.com/alnah/go-mdextra"
	"github.com/alnah/go-mdextra/internal/assets"
	"github.com/alnah/go-mdextra/internal/config"
	"github.com/alnah/go-mdextra/internal/dateutil"
	"github.com/alnah/go-mdextra/internal/fileutil"
	"github.com/alnah/go-mdextra/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUnknownCommand is returned for an unrecognised subcommand.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	ctx, stop := notifyContext(context.Background())
	code := runMain(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
// A first argument that is a markdown file, a directory or "-" runs
// convert without naming it.
func runMain(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	if looksLikeInput(cmd) {
		cmd, rest = "convert", args
	}

	var err error
	switch cmd {
	case "convert":
		err = runConvertCmd(ctx, rest, env)
	case "config":
		err = runConfigCmd(rest, env)
	case "styles":
		runStyles(env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdextra %s\n", Version)
	case "help", "-h", "--help":
		runHelp(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
		printUsage(env.Stderr)
	}

	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, errorHint(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvertCmd parses the convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return runConvert(ctx, positional, flags, env)
}

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// isCommand reports whether s names a subcommand.
func isCommand(s string) bool {
	switch s {
	case "convert", "config", "styles", "version", "help", "completion":
		return true
	}
	return false
}

// looksLikeInput reports whether arg is an input rather than a command.
func looksLikeInput(arg string) bool {
	if arg == stdinPath {
		return true
	}
	if isCommand(arg) || (len(arg) > 0 && arg[0] == '-') {
		return false
	}
	if fileutil.IsMarkdown(arg) {
		return true
	}
	info, err := os.Stat(arg)
	return err == nil && info.IsDir()
}

// errorHint returns an actionable hint for well-known failures.
func errorHint(err error) string {
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		var searched []string
		if dir, dirErr := os.UserConfigDir(); dirErr == nil {
			searched = append(searched, filepath.Join(dir, "go-mdextra", "config.yaml"))
		}
		return hints.ForConfigNotFound(searched)
	case errors.Is(err, mdextra.ErrHighlightStyleNotFound):
		return hints.ForHighlightStyle(styles.Names())
	case errors.Is(err, mdextra.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.NewEmbeddedLoader().StyleNames())
	case errors.Is(err, mdextra.ErrInvalidBaseURL):
		return hints.ForInvalidBaseURL()
	case errors.Is(err, dateutil.ErrInvalidDateFormat):
		return hints.ForDateFormat()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWriteHTML):
		return hints.ForOutputDirectory()
	}
	return ""
}
