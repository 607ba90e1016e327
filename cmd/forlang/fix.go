package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"forlang/internal/driver"
	"forlang/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.fl|directory>",
	Short: "Apply parser fix suggestions to programs",
	Long: `Parse programs and apply the edits attached to their syntax errors.
By default only the first applicable fix is applied; --all applies every
safe fix, --id applies exactly one fix of a single file.`,
	Args: cobra.ExactArgs(1),
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply the fix with this identifier")
	fixCmd.MarkFlagsMutuallyExclusive("all", "once", "id")
}

// readFixOptions maps the mutually exclusive flags onto an apply mode.
func readFixOptions(cmd *cobra.Command) (fix.ApplyOptions, error) {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	id, err := cmd.Flags().GetString("id")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	switch {
	case id != "":
		return fix.ApplyOptions{Mode: fix.ApplyModeID, TargetID: id}, nil
	case all:
		return fix.ApplyOptions{Mode: fix.ApplyModeAll}, nil
	}
	return fix.ApplyOptions{Mode: fix.ApplyModeOnce}, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]
	opts, err := readFixOptions(cmd)
	if err != nil {
		return err
	}
	// id уникален только в пределах одного файла
	if opts.Mode == fix.ApplyModeID && isDir(target) {
		return errors.New("fix: --id needs a single file, not a directory")
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return err
	}
	files, err := driver.ExpandTargets([]string{target})
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	var (
		total    fix.ApplyResult
		firstErr error
	)
	for _, path := range files {
		parsed, err := driver.Parse(cmd.Context(), path, maxDiag)
		if err != nil {
			return fmt.Errorf("fix: %w", err)
		}
		res, applyErr := fix.Apply(parsed.FileSet, parsed.Bag.Items(), opts)
		if res != nil {
			total.Applied = append(total.Applied, res.Applied...)
			total.Skipped = append(total.Skipped, res.Skipped...)
			total.FileChanges = append(total.FileChanges, res.FileChanges...)
		}
		if applyErr != nil && !errors.Is(applyErr, fix.ErrNoFixes) && firstErr == nil {
			firstErr = applyErr
		}
		// --once: одна правка на весь вызов
		if opts.Mode == fix.ApplyModeOnce && len(total.Applied) > 0 {
			break
		}
	}
	printApplyResult(cmd.OutOrStdout(), &total)
	return firstErr
}

func printApplyResult(out io.Writer, res *fix.ApplyResult) {
	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No applicable fixes found.")
	} else {
		fmt.Fprintf(out, "Applied %d fix(es):\n", len(res.Applied))
	}
	for _, a := range res.Applied {
		where := a.PrimaryPath
		if where == "" {
			where = "(unknown location)"
		}
		fmt.Fprintf(out, "  %s [%s] at %s (%d edits, %s)\n", a.Title, a.ID, where, a.EditCount, a.Applicability)
	}

	if len(res.FileChanges) > 0 {
		fmt.Fprintln(out, "Updated files:")
	}
	for _, ch := range res.FileChanges {
		fmt.Fprintf(out, "  %s (%d edits)\n", ch.Path, ch.EditCount)
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
	}
	for _, s := range res.Skipped {
		label := "[" + s.ID + "]"
		if s.ID == "" {
			label = "[(unnamed)]"
		}
		if s.Title != "" {
			label = s.Title + " " + label
		}
		fmt.Fprintf(out, "  %s: %s\n", label, s.Reason)
	}
}
