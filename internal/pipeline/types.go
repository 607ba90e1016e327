package pipeline

import "time"

// Stage is the phase a file is in. The zero Stage means "not started".
type Stage uint8

const (
	StageLoad Stage = iota + 1
	StageParse
	StageRun
	stageCount
)

var stageInfo = [stageCount]struct {
	name, active, past string
	weight             float64 // доля прогресса, пока стадия идёт
}{
	StageLoad:  {"load", "loading", "loaded", 0.05},
	StageParse: {"parse", "parsing", "parsed", 0.2},
	StageRun:   {"run", "running", "ran", 0.5},
}

// Stages lists every stage in execution order.
func Stages() []Stage { return []Stage{StageLoad, StageParse, StageRun} }

// StageByName maps a driver phase name onto a Stage; unknown names are run.
func StageByName(name string) Stage {
	for _, st := range Stages() {
		if stageInfo[st].name == name {
			return st
		}
	}
	return StageRun
}

func (s Stage) valid() bool { return s > 0 && s < stageCount }

func (s Stage) String() string {
	if !s.valid() {
		return ""
	}
	return stageInfo[s].name
}

// Active is the label shown while the stage runs: "parsing".
func (s Stage) Active() string {
	if !s.valid() {
		return ""
	}
	return stageInfo[s].active
}

// Past is the label for a finished stage: "parsed".
func (s Stage) Past() string {
	if !s.valid() {
		return ""
	}
	return stageInfo[s].past
}

// Weight is how far along a file is while s is in progress.
func (s Stage) Weight() float64 {
	if !s.valid() {
		return 0
	}
	return stageInfo[s].weight
}

type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Final reports whether no further events are expected for the file.
func (s Status) Final() bool { return s == StatusDone || s == StatusError }

// Event reports progress for one file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

type ProgressSink interface {
	OnEvent(Event)
}

// Timings sums stage durations over every file of a batch.
type Timings struct {
	total [stageCount]time.Duration
	seen  [stageCount]bool
}

func (t *Timings) Add(stage Stage, d time.Duration) {
	if t == nil || !stage.valid() {
		return
	}
	t.total[stage] += d
	t.seen[stage] = true
}

func (t Timings) Has(stage Stage) bool {
	return stage.valid() && t.seen[stage]
}

func (t Timings) Duration(stage Stage) time.Duration {
	if !stage.valid() {
		return 0
	}
	return t.total[stage]
}
