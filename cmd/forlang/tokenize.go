package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forlang/internal/diagfmt"
	"forlang/internal/driver"
	"forlang/internal/source"
	"forlang/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.fl|directory>",
	Short: "Tokenize a forlang source file",
	Long:  `Tokenize breaks a program into lexemes and prints them as a Lexema | Token table`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "table", "output format (table|list|json)")
	tokenizeCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	target := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxDiag, err := maxDiagnostics(cmd)
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	if isDir(target) {
		fs, results, err := driver.TokenizeDir(cmd.Context(), target, maxDiag, jobs)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		failed := 0
		for _, r := range results {
			if r.Tokens == nil {
				// файл не загрузился, у диагностики нет позиции
				for _, d := range r.Bag.Items() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", r.Path, d.Message)
				}
				failed++
				continue
			}
			if err := printDiagnostics(cmd, r.Bag, fs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n", r.Path)
			if err := writeTokens(cmd, format, r.Tokens, fs); err != nil {
				return err
			}
			if r.Bag.HasErrors() {
				failed++
			}
		}
		if failed > 0 {
			return &exitError{code: 1, msg: fmt.Sprintf("%d file(s) with lexical errors", failed)}
		}
		return nil
	}

	result, err := driver.Tokenize(target, maxDiag)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	if err := writeTokens(cmd, format, result.Tokens, result.FileSet); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return &exitError{code: 1}
	}
	return nil
}

func writeTokens(cmd *cobra.Command, format string, tokens []token.Token, fs *source.FileSet) error {
	out := cmd.OutOrStdout()
	switch format {
	case "table":
		return diagfmt.FormatTokensTable(out, tokens)
	case "list":
		return diagfmt.FormatTokensPretty(out, tokens, fs)
	case "json":
		return diagfmt.FormatTokensJSON(out, tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
