package driver

import (
	"context"
	"errors"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"forlang/internal/diag"
	"forlang/internal/source"
	"forlang/internal/token"
	"forlang/internal/trace"
)

// TokenizeDirResult is one file of TokenizeDir.
type TokenizeDirResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token
	Bag    *diag.Bag
}

// RunFileResult is one file of a batch run. Err wraps ErrInvalidProgram for
// programs with syntax errors.
type RunFileResult struct {
	Path   string
	Result *RunResult
	Err    error
}

// fanOut calls work for 0..n-1 on at most jobs goroutines (GOMAXPROCS when
// jobs <= 0). Each call owns slot i of whatever result slice it fills.
func fanOut(ctx context.Context, n, jobs int, work func(ctx context.Context, i int) error) error {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, n)))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return work(gctx, i)
		})
	}
	return g.Wait()
}

// TokenizeDir lexes every program file under dir in parallel. A file that
// cannot be read gets an IOLoadFileError diagnostic instead of tokens.
func TokenizeDir(ctx context.Context, dir string, maxDiagnostics, jobs int) (*source.FileSet, []TokenizeDirResult, error) {
	files, err := listProgramFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	results := make([]TokenizeDirResult, len(files))

	// FileSet не потокобезопасен: грузим всё до запуска воркеров
	loadErrs := make([]error, len(files))
	for i, path := range files {
		results[i].Path = path
		results[i].Bag = diag.NewBag(maxDiagnostics)
		results[i].FileID, loadErrs[i] = fileSet.Load(path)
	}

	err = fanOut(ctx, len(files), jobs, func(_ context.Context, i int) error {
		r := &results[i]
		if loadErrs[i] != nil {
			r.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErrs[i].Error()))
			return nil
		}
		r.Tokens = lexToEOF(fileSet.Get(r.FileID), r.Bag)
		return nil
	})
	return fileSet, results, err
}

// RunDir runs every program file under dir. See RunFiles.
func RunDir(ctx context.Context, dir string, opts *RunOptions, jobs int) ([]RunFileResult, error) {
	files, err := listProgramFiles(dir)
	if err != nil {
		return nil, err
	}
	return RunFiles(ctx, files, opts, jobs)
}

// RunFiles runs independent programs in parallel, each with its own Store.
// Lines are collected per file and opts.Output is ignored, so output of
// different programs never interleaves. Results keep the order of paths.
// Per-file failures end up in the results; the error is for cancellation.
func RunFiles(ctx context.Context, paths []string, opts *RunOptions, jobs int) ([]RunFileResult, error) {
	perFile := RunOptions{}
	if opts != nil {
		perFile = *opts
	}
	perFile.Output, perFile.Collect = nil, true
	perFile.Record, perFile.Replay = nil, nil

	results := make([]RunFileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "run-batch", trace.CurrentSpan(ctx).SpanID)
	defer span.End(strconv.Itoa(len(paths)) + " files")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	err := fanOut(ctx, len(paths), jobs, func(ctx context.Context, i int) error {
		fileOpts := perFile
		res, err := Run(ctx, paths[i], &fileOpts)
		results[i] = RunFileResult{Path: paths[i], Result: res, Err: err}
		// отмена приходит в VM как panic VM2004, наверх отдаём её как ошибку
		if err == nil && res.VMErr != nil && errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return nil
	})
	return results, err
}
