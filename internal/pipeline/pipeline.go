package pipeline

import (
	"context"
	"errors"
	"sync"

	"forlang/internal/driver"
)

// Request describes a batch of programs to run.
type Request struct {
	Files    []string
	Jobs     int
	Options  driver.RunOptions
	Progress ProgressSink
}

// Result holds per-file outcomes in request order.
type Result struct {
	Files   []driver.RunFileResult
	Timings Timings
}

// Failed reports how many files were invalid, failed to load or panicked.
func (r Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil || (f.Result != nil && f.Result.VMErr != nil) {
			n++
		}
	}
	return n
}

// Run executes req.Files through driver.RunFiles and reports progress.
// Every file gets a queued event first and exactly one done or error event last.
func Run(ctx context.Context, req *Request) (Result, error) {
	if req == nil {
		return Result{}, errors.New("missing pipeline request")
	}

	var (
		mu      sync.Mutex
		timings Timings
	)
	emitQueued(req.Progress, req.Files)

	opts := req.Options
	inner := opts.Observer
	opts.Observer = func(ev driver.PhaseEvent) {
		if inner != nil {
			inner(ev)
		}
		stage := StageByName(ev.Name)
		if ev.Status == driver.PhaseStart {
			emit(req.Progress, Event{File: ev.File, Stage: stage, Status: StatusWorking})
			return
		}
		mu.Lock()
		timings.Add(stage, ev.Elapsed)
		mu.Unlock()
	}

	files, err := driver.RunFiles(ctx, req.Files, &opts, req.Jobs)
	for i, f := range files {
		path := req.Files[i]
		switch {
		case f.Err != nil:
			emit(req.Progress, Event{File: path, Stage: failedStage(f), Status: StatusError, Err: f.Err})
		case f.Result != nil && f.Result.VMErr != nil:
			emit(req.Progress, Event{File: path, Stage: StageRun, Status: StatusError, Err: f.Result.VMErr})
		case f.Result == nil:
			// отменено до старта
			emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: context.Canceled})
		default:
			emit(req.Progress, Event{File: path, Stage: StageRun, Status: StatusDone})
		}
	}
	return Result{Files: files, Timings: timings}, err
}

func failedStage(f driver.RunFileResult) Stage {
	if f.Result == nil {
		return StageLoad
	}
	if errors.Is(f.Err, driver.ErrInvalidProgram) {
		return StageParse
	}
	return StageRun
}

func emitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		emit(sink, Event{File: f, Status: StatusQueued})
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
