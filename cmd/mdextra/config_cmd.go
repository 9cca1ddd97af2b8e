package main

import (
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-mdextra/internal/yamlutil"
)

// runConfigCmd prints the configuration convert would run with: the
// config file, then environment overrides, then flags. The macro names
// documents can call follow as a YAML comment.
func runConfigCmd(args []string, env *Environment) error {
	flags, _, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	envCfg := loadEnvConfig(env.Getenv)
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	registry, err := newMacroRegistry(cfg, env.Now)
	if err != nil {
		return err
	}
	out, err := yamlutil.Encode(cfg)
	if err != nil {
		return err
	}

	if _, err := env.Stdout.Write(out); err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.Stdout, "# macros: %s\n", strings.Join(registry.Names(), ", "))
	return err
}
