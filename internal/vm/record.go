package vm

import (
	"encoding/json"
	"io"
	"sync"

	"forlang/internal/source"
)

// Recorder appends the events of one run to an NDJSON log. Nothing is written
// after the terminating exit or panic event, or after the first write error.
// A nil *Recorder records nothing.
type Recorder struct {
	mu     sync.Mutex
	enc    *json.Encoder
	err    error
	closed bool
}

// NewRecorder writes the header line immediately.
func NewRecorder(w io.Writer, version string) *Recorder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	r := &Recorder{enc: enc}
	r.err = enc.Encode(NewLogHeader(version))
	return r
}

// Err is the first write error, if any.
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Done reports whether the terminating event has been written.
func (r *Recorder) Done() bool {
	if r == nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Recorder) RecordOutput(text string) {
	r.write(LogOutputEvent{Kind: kindOutput, Text: text}, false)
}

func (r *Recorder) RecordSet(name string, value int64) {
	r.write(LogSetEvent{Kind: kindSet, Name: name, Value: value}, false)
}

func (r *Recorder) RecordExit(code int) {
	r.write(LogExitEvent{Kind: kindExit, Code: code}, true)
}

func (r *Recorder) RecordPanic(vmErr *VMError, files *source.FileSet) {
	if r != nil {
		r.write(NewLogPanicEvent(vmErr, files), true)
	}
}

func (r *Recorder) write(ev any, last bool) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.err != nil {
		return
	}
	r.err = r.enc.Encode(ev)
	r.closed = last
}
