package driver

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"forlang/internal/observ"
	"forlang/internal/project"
	"forlang/internal/source"
	"forlang/internal/trace"
	"forlang/internal/vm"
)

// RunOptions configures Run and RunFiles.
type RunOptions struct {
	MaxDiagnostics int
	MaxIterations  uint64

	// Output receives lines as they are produced. Ignored by RunFiles, which
	// always collects lines per file.
	Output vm.Runtime
	// Collect keeps every emitted line in RunResult.Lines.
	Collect bool

	// Record receives an NDJSON execution log.
	Record io.Writer
	// Replay is a previously recorded log the run must reproduce.
	Replay []byte

	// Cache, when set, short-circuits runs of unchanged programs.
	// Recording and replaying runs bypass it.
	Cache *DiskCache

	Timings  bool
	Observer PhaseObserver
	// Version goes into log headers and cache keys.
	Version string
}

// RunResult is the outcome of one program.
type RunResult struct {
	*ParseResult

	Lines      []string
	Store      map[string]int64
	Iterations uint64
	// VMErr is the runtime panic that stopped the program, if any.
	VMErr  *vm.VMError
	Cached bool
	Timing *observ.Report
}

// Run loads, parses and executes path. A program with syntax errors yields
// an error wrapping ErrInvalidProgram together with the parse result.
// A runtime panic is not an error here; it is reported in RunResult.VMErr.
func Run(ctx context.Context, path string, opts *RunOptions) (*RunResult, error) {
	if opts == nil {
		opts = &RunOptions{}
	}
	timer := observ.NewTimer()

	opts.Observer.start(path, "load")
	idx := timer.Begin("load")
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	timer.End(idx, "")
	opts.Observer.end(path, "load", timer.Duration(idx), err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return runLoaded(ctx, fs, fs.Get(fileID), opts, timer)
}

// RunSource is Run for in-memory content.
func RunSource(ctx context.Context, name string, content []byte, opts *RunOptions) (*RunResult, error) {
	if opts == nil {
		opts = &RunOptions{}
	}
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, content)
	return runLoaded(ctx, fs, fs.Get(fileID), opts, observ.NewTimer())
}

func runLoaded(ctx context.Context, fs *source.FileSet, file *source.File, opts *RunOptions, timer *observ.Timer) (*RunResult, error) {
	path := file.Path

	opts.Observer.start(path, "parse")
	idx := timer.Begin("parse")
	parsed, err := parseLoaded(ctx, fs, file, opts.MaxDiagnostics)
	if err != nil {
		timer.End(idx, "")
		opts.Observer.end(path, "parse", timer.Duration(idx), err)
		return nil, err
	}
	timer.End(idx, strconv.Itoa(parsed.Bag.Len())+" diagnostics")

	res := &RunResult{ParseResult: parsed}
	if !parsed.Valid() {
		err = fmt.Errorf("%s: %w", path, ErrInvalidProgram)
		opts.Observer.end(path, "parse", timer.Duration(idx), err)
		res.finishTimings(opts, timer)
		return res, err
	}
	opts.Observer.end(path, "parse", timer.Duration(idx), nil)

	opts.Observer.start(path, "run")
	idx = timer.Begin("run")
	err = res.execute(ctx, opts)
	note := strconv.FormatUint(res.Iterations, 10) + " iterations"
	if res.Cached {
		note += ", cached"
	}
	timer.End(idx, note)

	var phaseErr error
	if err != nil {
		phaseErr = err
	} else if res.VMErr != nil {
		phaseErr = res.VMErr
	}
	opts.Observer.end(path, "run", timer.Duration(idx), phaseErr)
	res.finishTimings(opts, timer)
	return res, err
}

func (res *RunResult) execute(ctx context.Context, opts *RunOptions) error {
	useCache := opts.Cache != nil && opts.Record == nil && opts.Replay == nil
	key := runCacheKey(project.Digest(res.File.Hash), opts)
	if useCache {
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			return fmt.Errorf("run cache: %w", err)
		}
		if hit {
			return res.fromCache(&payload, opts)
		}
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "run", trace.CurrentSpan(ctx).SpanID)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	collect := opts.Collect || useCache
	var buf *vm.BufferRuntime
	rts := make(vm.TeeRuntime, 0, 2)
	if collect {
		buf = vm.NewBufferRuntime()
		rts = append(rts, buf)
	}
	if opts.Output != nil {
		rts = append(rts, opts.Output)
	}

	m := vm.New(res.Builder, res.FileID, rts, res.FileSet, vm.Options{MaxIterations: opts.MaxIterations})
	if opts.Record != nil {
		m.Recorder = vm.NewRecorder(opts.Record, opts.Version)
	}
	if opts.Replay != nil {
		m.Replayer = vm.NewReplayerFromBytes(opts.Replay)
	}

	res.VMErr = m.Run(ctx)
	res.Iterations = m.Iterations
	res.Store = m.Store.Snapshot()
	if buf != nil {
		res.Lines = buf.Lines()
	}
	span.With("iterations", strconv.FormatUint(m.Iterations, 10))
	if res.VMErr != nil {
		span.End(res.VMErr.Error())
	} else {
		span.End("")
	}

	if err := m.Recorder.Err(); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	if useCache && res.VMErr == nil {
		if err := opts.Cache.Put(key, &DiskPayload{
			Path:        res.File.Path,
			ContentHash: project.Digest(res.File.Hash),
			Lines:       res.Lines,
			Store:       res.Store,
			Iterations:  res.Iterations,
		}); err != nil {
			return fmt.Errorf("run cache: %w", err)
		}
	}
	return nil
}

func (res *RunResult) fromCache(payload *DiskPayload, opts *RunOptions) error {
	res.Cached = true
	res.Lines = payload.Lines
	res.Store = payload.Store
	if res.Store == nil {
		res.Store = map[string]int64{}
	}
	res.Iterations = payload.Iterations
	if opts.Output == nil {
		return nil
	}
	for _, line := range payload.Lines {
		if err := opts.Output.Output(line); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}

func (res *RunResult) finishTimings(opts *RunOptions, timer *observ.Timer) {
	if !opts.Timings {
		return
	}
	report := timer.Report()
	res.Timing = &report
	appendTimingDiagnostic(res.Bag, res.File.Path, report)
}
