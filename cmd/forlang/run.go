package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"forlang/internal/driver"
	"forlang/internal/observ"
	"forlang/internal/pipeline"
	"forlang/internal/version"
	"forlang/internal/vm"
)

const noTargetsMessage = "no input files and no forlang.toml found\nplease specify programs explicitly, e.g.:\n  forlang run loops.fl"

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.fl|directory]...",
	Short: "Execute forlang programs",
	Long: `Run parses and executes each program; printf lines go to stdout.
Without arguments the targets come from [run] in forlang.toml`,
	RunE: runExecution,
}

func init() {
	runCmd.Flags().Uint64("max-iterations", 0, "abort a program after this many loop iterations (0 = unlimited)")
	runCmd.Flags().String("record", "", "write an NDJSON execution log to this file")
	runCmd.Flags().String("replay", "", "check the run against a recorded execution log")
	runCmd.Flags().Bool("cache", false, "reuse results of unchanged programs from the disk cache")
	runCmd.Flags().Bool("cache-clear", false, "drop the disk cache before running")
	runCmd.Flags().String("ui", "auto", "progress UI for batches (auto|on|off)")
	runCmd.Flags().Int("jobs", 0, "max parallel programs for batches (0=auto)")
	runCmd.Flags().Bool("store", false, "print the final variable store of each program")
}

type runFlags struct {
	record, replay string
	cacheClear     bool
	ui             uiMode
	jobs           int
	store          bool
}

func runExecution(cmd *cobra.Command, args []string) error {
	opts, flags, err := readRunOptions(cmd)
	if err != nil {
		return err
	}

	targets := args
	if len(targets) == 0 {
		if activeManifest == nil {
			return errors.New(noTargetsMessage)
		}
		if targets, err = activeManifest.RunTargets(); err != nil {
			return err
		}
	}
	files, err := driver.ExpandTargets(targets)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("run: no programs found in %s", strings.Join(targets, ", "))
	}

	if opts.Cache != nil && flags.cacheClear {
		if err := opts.Cache.DropAll(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	if (flags.record != "" || flags.replay != "") && len(files) != 1 {
		return errors.New("--record and --replay need exactly one program")
	}
	if len(files) == 1 && !shouldUseTUI(flags.ui, 1) {
		return runSingle(cmd, files[0], opts, flags)
	}
	return runBatch(cmd, files, opts, flags)
}

func readRunOptions(cmd *cobra.Command) (*driver.RunOptions, runFlags, error) {
	var (
		flags runFlags
		err   error
	)
	opts := &driver.RunOptions{Version: version.Version}
	if opts.MaxDiagnostics, err = maxDiagnostics(cmd); err != nil {
		return nil, flags, err
	}
	if opts.Timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return nil, flags, err
	}
	if opts.MaxIterations, err = cmd.Flags().GetUint64("max-iterations"); err != nil {
		return nil, flags, err
	}
	if flags.record, err = cmd.Flags().GetString("record"); err != nil {
		return nil, flags, err
	}
	if flags.replay, err = cmd.Flags().GetString("replay"); err != nil {
		return nil, flags, err
	}
	if flags.cacheClear, err = cmd.Flags().GetBool("cache-clear"); err != nil {
		return nil, flags, err
	}
	if flags.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return nil, flags, err
	}
	if flags.store, err = cmd.Flags().GetBool("store"); err != nil {
		return nil, flags, err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, flags, err
	}
	if flags.ui, err = readUIMode(uiValue); err != nil {
		return nil, flags, err
	}

	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, flags, err
	}
	if useCache || flags.cacheClear {
		if opts.Cache, err = driver.OpenDiskCache("forlang"); err != nil {
			return nil, flags, fmt.Errorf("run cache: %w", err)
		}
	}
	return opts, flags, nil
}

func runSingle(cmd *cobra.Command, path string, opts *driver.RunOptions, flags runFlags) error {
	out := vm.NewWriterRuntime(cmd.OutOrStdout())
	opts.Output = out

	if flags.replay != "" {
		// #nosec G304 -- path comes from the command line
		data, err := os.ReadFile(flags.replay)
		if err != nil {
			return fmt.Errorf("replay: %w", err)
		}
		opts.Replay = data
	}
	if flags.record != "" {
		f, err := os.Create(flags.record)
		if err != nil {
			return fmt.Errorf("record: %w", err)
		}
		defer f.Close()
		opts.Record = f
	}

	res, err := driver.Run(cmd.Context(), path, opts)
	if flushErr := out.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	if res != nil {
		if perr := printDiagnostics(cmd, res.Bag, res.FileSet); perr != nil {
			return perr
		}
	}
	if err != nil {
		if errors.Is(err, driver.ErrInvalidProgram) {
			return &exitError{code: 1, msg: fmt.Sprintf("%s: INVALID", path)}
		}
		return err
	}

	if flags.store {
		printStore(cmd.OutOrStdout(), res.Store)
	}
	if opts.Timings && res.Timing != nil {
		if err := printReport(cmd.ErrOrStderr(), res.Timing); err != nil {
			return err
		}
	}
	if res.VMErr != nil {
		fmt.Fprint(cmd.ErrOrStderr(), res.VMErr.FormatWithFiles(res.FileSet))
		return &exitError{code: 1}
	}
	return nil
}

func runBatch(cmd *cobra.Command, files []string, opts *driver.RunOptions, flags runFlags) error {
	req := &pipeline.Request{Files: files, Jobs: flags.jobs, Options: *opts}

	var (
		result pipeline.Result
		err    error
	)
	if shouldUseTUI(flags.ui, len(files)) {
		result, err = runWithUI(cmd.Context(), cmd.ErrOrStderr(), "forlang run", req)
	} else {
		result, err = pipeline.Run(cmd.Context(), req)
	}
	// при отмене всё равно печатаем то, что успело выполниться
	if err != nil && cmd.Context().Err() == nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	for _, f := range result.Files {
		fmt.Fprintf(out, "==> %s <==\n", f.Path)
		res := f.Result
		if res != nil {
			if perr := printDiagnostics(cmd, res.Bag, res.FileSet); perr != nil {
				return perr
			}
		}
		switch {
		case f.Err != nil && errors.Is(f.Err, driver.ErrInvalidProgram):
			fmt.Fprintf(errOut, "%s: INVALID\n", f.Path)
			continue
		case f.Err != nil:
			fmt.Fprintf(errOut, "%s: %v\n", f.Path, f.Err)
			continue
		case res == nil:
			fmt.Fprintf(errOut, "%s: not run\n", f.Path)
			continue
		}
		for _, line := range res.Lines {
			fmt.Fprintln(out, line)
		}
		if flags.store {
			printStore(out, res.Store)
		}
		if res.VMErr != nil {
			fmt.Fprint(errOut, res.VMErr.FormatWithFiles(res.FileSet))
		}
	}

	if opts.Timings {
		printStageTimings(errOut, result.Timings)
	}
	if err != nil {
		return err
	}
	if failed := result.Failed(); failed > 0 {
		return &exitError{code: 1, msg: fmt.Sprintf("%d of %d program(s) failed", failed, len(result.Files))}
	}
	return nil
}

func printStore(w io.Writer, store map[string]int64) {
	for _, name := range slices.Sorted(maps.Keys(store)) {
		fmt.Fprintf(w, "%s = %d\n", name, store[name])
	}
}

func printReport(w io.Writer, report *observ.Report) error {
	if err := report.WriteText(w); err != nil {
		return fmt.Errorf("write timings: %w", err)
	}
	return nil
}
