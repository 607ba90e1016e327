package main

import (
	"os"

	"github.com/spf13/cobra"

	"forlang/internal/diag"
	"forlang/internal/diagfmt"
	"forlang/internal/source"
)

// printDiagnostics writes warnings and errors from bag to stderr.
// Timing entries are printed only with --timings.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	useColor, err := colorEnabled(cmd, os.Stderr)
	if err != nil {
		return err
	}

	shown := diag.NewBag(bag.Len())
	for _, d := range bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		if quiet && d.Severity != diag.SevError {
			continue
		}
		shown.Add(d)
	}
	if shown.Len() == 0 {
		return nil
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), shown, fs, diagfmt.PrettyOpts{
		Color:     useColor,
		Context:   1,
		ShowNotes: true,
		ShowFixes: !quiet,
	})
	return nil
}

func maxDiagnostics(cmd *cobra.Command) (int, error) {
	return cmd.Root().PersistentFlags().GetInt("max-diagnostics")
}

func onlyWarnings(bag *diag.Bag) *diag.Bag {
	return bag.Select(func(d diag.Diagnostic) bool { return d.Severity == diag.SevWarning })
}
