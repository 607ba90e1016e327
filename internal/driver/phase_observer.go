package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary for one file.
type PhaseEvent struct {
	File    string
	Name    string // load, tokenize, parse, run
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events emitted during Run and RunDir.
// It may be called from several goroutines at once.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) start(file, name string) {
	if o != nil {
		o(PhaseEvent{File: file, Name: name, Status: PhaseStart})
	}
}

func (o PhaseObserver) end(file, name string, elapsed time.Duration, err error) {
	if o != nil {
		o(PhaseEvent{File: file, Name: name, Status: PhaseEnd, Elapsed: elapsed, Err: err})
	}
}
