package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"forlang/internal/project"
)

// активный манифест текущего вызова (nil, если его нет)
var activeManifest *project.Manifest

var (
	traceCleanup   func()
	profileCleanup func()
)

func prepareCommand(cmd *cobra.Command, _ []string) error {
	activeManifest = nil
	skip, err := cmd.Root().PersistentFlags().GetBool("no-manifest")
	if err != nil {
		return err
	}
	if !skip {
		m, ok, err := project.LoadManifestFrom(".")
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		if ok {
			activeManifest = m
			if err := applyManifestDefaults(cmd, m); err != nil {
				return err
			}
		}
	}

	useColor, err := colorEnabled(cmd, os.Stdout)
	if err != nil {
		return err
	}
	color.NoColor = !useColor

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	traceCleanup = cleanup

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	profileCleanup = stopProfiling
	return nil
}

// finishCommand also runs from main, because cobra skips post-run hooks
// when RunE fails.
func finishCommand(*cobra.Command, []string) {
	if profileCleanup != nil {
		profileCleanup()
		profileCleanup = nil
	}
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

// applyManifestDefaults copies manifest values into flags the user did not set.
func applyManifestDefaults(cmd *cobra.Command, m *project.Manifest) error {
	set := func(name, value string) error {
		if value == "" {
			return nil
		}
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			return nil
		}
		if err := f.Value.Set(value); err != nil {
			return fmt.Errorf("%s: %s: %w", m.Path, name, err)
		}
		return nil
	}
	cfg := m.Config
	if cfg.Limits.MaxIterations > 0 {
		if err := set("max-iterations", fmt.Sprint(cfg.Limits.MaxIterations)); err != nil {
			return err
		}
	}
	if cfg.Limits.MaxDiagnostics > 0 {
		if err := set("max-diagnostics", fmt.Sprint(cfg.Limits.MaxDiagnostics)); err != nil {
			return err
		}
	}
	for name, value := range map[string]string{
		"color":       cfg.Output.Color,
		"trace":       cfg.Trace.Output,
		"trace-level": cfg.Trace.Level,
		"trace-mode":  cfg.Trace.Mode,
	} {
		if err := set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// colorEnabled resolves --color against whether f is a terminal.
func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}
