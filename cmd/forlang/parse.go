package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"forlang/internal/diagfmt"
	"forlang/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.fl|directory>...",
	Short: "Parse programs, print the verdict and the syntax tree",
	Long: `Parse checks every program, prints "<file>: VALID" or "<file>: INVALID"
with one "file:line:col – message" line per syntax error, and prints the tree of valid programs`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "tree output format (tree|pretty|json|none)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "pretty", "json", "none":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	files, err := driver.ExpandTargets(args)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	out := cmd.OutOrStdout()
	invalid := 0
	for _, path := range files {
		result, err := driver.Parse(cmd.Context(), path, maxDiag)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		if result.Bag.HasWarnings() {
			warnings := result.Bag
			if result.Bag.HasErrors() {
				// ошибки уже попадут в вердикт
				warnings = onlyWarnings(result.Bag)
			}
			if err := printDiagnostics(cmd, warnings, result.FileSet); err != nil {
				return err
			}
		}
		if !diagfmt.Verdict(out, path, result.Bag, result.FileSet) {
			invalid++
			continue
		}

		switch format {
		case "tree":
			err = diagfmt.FormatDerivationTree(out, result.Builder, result.FileID, result.FileSet)
		case "pretty":
			err = diagfmt.FormatASTPretty(out, result.Builder, result.FileID, result.FileSet)
		case "json":
			err = diagfmt.FormatASTJSON(out, result.Builder, result.FileID)
		}
		if err != nil {
			return err
		}
	}

	if invalid > 0 {
		return &exitError{code: 1}
	}
	return nil
}
