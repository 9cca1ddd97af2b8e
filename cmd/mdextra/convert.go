package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/automaxprocs/maxprocs"

	mdextra "github.com/alnah/go-mdextra"
	"github.com/alnah/go-mdextra/internal/config"
	"github.com/alnah/go-mdextra/internal/fileutil"
	"github.com/alnah/go-mdextra/internal/logging"
	"github.com/alnah/go-mdextra/internal/macros"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrReadMarkdown   = errors.New("failed to read markdown file")
	ErrWriteHTML      = errors.New("failed to write HTML file")
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrFormatterInit  = errors.New("failed to initialize formatter")
	ErrBatchFailed    = errors.New("conversion failed")
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	envCfg := loadEnvConfig(env.Getenv)

	workers := resolveWorkers(flags.workers, envCfg)
	if err := validateWorkers(workers); err != nil {
		return err
	}
	timeout, err := resolveTimeout(flags.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewWriter(env.Stderr, resolveLogLevel(flags.common, cfg), flags.common.color)
	ctx = logging.WithLogger(ctx, logger)
	warnUnknownEnvVars(logger, env.Environ())

	// maxprocs.Set only fails on an invalid GOMAXPROCS value, in which
	// case the runtime default stands.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Debugf))

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputPath := resolveOutputDir(flags.output, cfg)

	factory := newFormatterFactory(cfg, env.Now)

	if inputPath == stdinPath {
		return convertStdin(ctx, factory, outputPath, cfg, env)
	}

	files, err := discoverFiles(inputPath, outputPath)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	poolSize := min(mdextra.ResolvePoolSize(workers), len(files))
	logger.Debug("starting conversion", logging.FieldFiles, len(files), logging.FieldJobs, poolSize)

	pool := mdextra.NewFormatterPool(poolSize, factory)
	defer pool.Close()

	// Build the first formatter up front so option errors surface once
	// instead of once per file.
	first, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormatterInit, err)
	}
	pool.Release(first)

	params := &conversionParams{title: cfg.Standalone.Title}
	results := convertBatch(ctx, pool, files, params)

	failedCount := printResults(logger, results, flags.common, env)
	if err := ctx.Err(); err != nil {
		return err
	}
	if failedCount > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrBatchFailed, failedCount, len(files))
	}
	return nil
}

// loadConfig loads the config named by flag or env, or the defaults.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	changed := flags.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}

	if flags.baseURL != "" {
		cfg.Links.BaseURL = flags.baseURL
	}

	// Render flags
	if changed("hard-wraps") {
		cfg.Render.HardWraps = flags.render.hardWraps
	}
	if changed("html4") {
		cfg.Render.XHTML = !flags.render.html4
	}
	if changed("unsafe") {
		cfg.Render.Unsafe = flags.render.unsafe
	}

	// Highlight flags
	if flags.highlight.style != "" {
		cfg.Highlight.Style = flags.highlight.style
	}
	if changed("inline-highlight") {
		cfg.Highlight.Inline = flags.highlight.inline
	}
	if changed("guess-lang") {
		cfg.Highlight.GuessLanguage = flags.highlight.guess
	}

	// Macro flags
	if flags.macros.dateFormat != "" {
		cfg.Macros.DateFormat = flags.macros.dateFormat
	}
	if flags.macros.version != "" {
		cfg.Macros.Version = flags.macros.version
	}

	// Document flags
	if changed("standalone") {
		cfg.Standalone.Enabled = flags.document.standalone
	}
	if flags.document.title != "" {
		cfg.Standalone.Title = flags.document.title
	}
	if flags.document.lang != "" {
		cfg.Standalone.Lang = flags.document.lang
	}
	if flags.document.style != "" {
		cfg.CSS.Style = flags.document.style
		cfg.Standalone.Enabled = true
	}
	if flags.document.assetPath != "" {
		cfg.Assets.BasePath = flags.document.assetPath
	}
	if flags.common.logLevel != "" {
		cfg.Log.Level = flags.common.logLevel
	}

	// Disable flags
	if flags.highlight.disabled {
		cfg.Highlight.Enabled = false
	}
}

// resolveLogLevel applies --quiet and --verbose over the configured level.
func resolveLogLevel(f commonFlags, cfg *config.Config) string {
	switch {
	case f.quiet:
		return "error"
	case f.verbose:
		return "debug"
	default:
		return cfg.Log.Level
	}
}

// resolveTimeout parses the --timeout flag, falling back to the env value.
func resolveTimeout(flagTimeout string, envTimeout time.Duration) (time.Duration, error) {
	if flagTimeout == "" {
		return envTimeout, nil
	}
	d, err := time.ParseDuration(flagTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s (must be positive)", ErrInvalidTimeout, flagTimeout)
	}
	return d, nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output location from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// buildFormatterOptions translates the config into formatter options.
// The macro resolver is added per formatter by the pool factory.
func buildFormatterOptions(cfg *config.Config) []mdextra.Option {
	return []mdextra.Option{
		mdextra.WithHardWraps(cfg.Render.HardWraps),
		mdextra.WithXHTML(cfg.Render.XHTML),
		mdextra.WithUnsafeHTML(cfg.Render.Unsafe),
		mdextra.WithHighlighting(cfg.Highlight.Enabled),
		mdextra.WithHighlightStyle(cfg.Highlight.Style),
		mdextra.WithInlineHighlighting(cfg.Highlight.Inline),
		mdextra.WithLanguageGuessing(cfg.Highlight.GuessLanguage),
		mdextra.WithBaseURL(cfg.Links.BaseURL),
		mdextra.WithStandalone(cfg.Standalone.Enabled),
		mdextra.WithDocumentLang(cfg.Standalone.Lang),
		mdextra.WithStyle(cfg.CSS.Style),
		mdextra.WithAssetPath(cfg.Assets.BasePath),
	}
}

// newFormatterFactory returns a factory giving every formatter its own
// macro registry.
func newFormatterFactory(cfg *config.Config, now func() time.Time) mdextra.FormatterFactory {
	return func() (*mdextra.Formatter, error) {
		registry, err := newMacroRegistry(cfg, now)
		if err != nil {
			return nil, err
		}
		opts := append(buildFormatterOptions(cfg), mdextra.WithMacroResolver(registry))
		return mdextra.NewFormatter(opts...)
	}
}

// newMacroRegistry builds the built-in macros plus the config templates.
func newMacroRegistry(cfg *config.Config, now func() time.Time) (*macros.Registry, error) {
	registry := macros.New(
		macros.WithDateFormat(cfg.Macros.DateFormat),
		macros.WithVersion(cfg.Macros.Version),
		macros.WithClock(now),
	)
	if err := registry.RegisterTemplates(cfg.Macros.Templates); err != nil {
		return nil, err
	}
	return registry, nil
}

// convertStdin formats standard input, writing to output or stdout.
func convertStdin(ctx context.Context, factory mdextra.FormatterFactory, output string, cfg *config.Config, env *Environment) error {
	formatter, err := factory()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormatterInit, err)
	}

	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}

	result, err := formatter.Format(ctx, mdextra.Input{
		Markdown: string(content),
		Title:    cfg.Standalone.Title,
	})
	if err != nil {
		return err
	}
	logWarnings(logging.FromContext(ctx), stdinPath, result.Warnings)

	if output == "" {
		_, err = io.WriteString(env.Stdout, result.HTML)
		return err
	}
	if err := fileutil.WriteFileAtomic(output, result.HTML); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteHTML, err)
	}
	return nil
}

// logWarnings reports a document's soft diagnostics at warn level.
func logWarnings(logger *log.Logger, path string, warnings []string) {
	for _, w := range warnings {
		logger.Warn(w, logging.FieldPath, path)
	}
}
