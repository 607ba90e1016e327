package vm

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
)

// logLine is the union of every event shape; Kind says which fields are set.
type logLine struct {
	Kind  string   `json:"kind"`
	Text  string   `json:"text"`
	Name  string   `json:"name"`
	Value int64    `json:"value"`
	Code  any      `json:"code"` // int для exit, "VMxxxx" для panic
	Msg   string   `json:"msg"`
	At    string   `json:"at"`
	Bt    []string `json:"bt"`
}

var knownKinds = []string{kindOutput, kindSet, kindExit, kindPanic}

// Replayer checks a run against a previously recorded NDJSON log.
type Replayer struct {
	header LogHeader
	events []logLine
	pos    int
	err    error
	ended  bool
}

func NewReplayerFromBytes(data []byte) *Replayer {
	return NewReplayerFromReader(bytes.NewReader(data))
}

func NewReplayerFromReader(rd io.Reader) *Replayer {
	r := &Replayer{}
	r.err = r.load(rd)
	if r.err == nil {
		r.err = r.checkHeader()
	}
	return r
}

func (r *Replayer) load(rd io.Reader) error {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64<<10), 16<<20)
	sawHeader := false
	for n := 1; sc.Scan(); n++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		if !sawHeader {
			if err := json.Unmarshal(raw, &r.header); err != nil {
				return fmt.Errorf("line %d: bad header: %w", n, err)
			}
			sawHeader = true
			continue
		}
		var ev logLine
		if err := json.Unmarshal(raw, &ev); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if !slices.Contains(knownKinds, ev.Kind) {
			return fmt.Errorf("line %d: unknown event kind %q", n, ev.Kind)
		}
		r.events = append(r.events, ev)
	}
	return sc.Err()
}

func (r *Replayer) checkHeader() error {
	switch h := r.header; {
	case h.Kind != kindHeader:
		return errors.New("missing header")
	case h.V != LogVersion:
		return fmt.Errorf("unsupported log version %d", h.V)
	case h.Policy.Overflow != overflowPolicy:
		return fmt.Errorf("unsupported overflow policy %q", h.Policy.Overflow)
	}
	return nil
}

// Validate reports why the log cannot be replayed, if it cannot.
func (r *Replayer) Validate() error {
	if r == nil {
		return errors.New("nil replayer")
	}
	return r.err
}

// Remaining is the number of events not yet matched.
func (r *Replayer) Remaining() int {
	if r == nil {
		return 0
	}
	return len(r.events) - r.pos
}

// ConsumeOutput checks that the next logged event is the same output line.
func (r *Replayer) ConsumeOutput(vm *VM, text string) *VMError {
	ev, vmErr := r.take(vm, kindOutput)
	if vmErr == nil && ev.Text != text {
		vmErr = vm.fail(PanicReplayMismatch, "replay mismatch: expected output %q, got %q", ev.Text, text)
	}
	return vmErr
}

// ConsumeSet checks that the next logged event is the same store write.
func (r *Replayer) ConsumeSet(vm *VM, name string, value int64) *VMError {
	ev, vmErr := r.take(vm, kindSet)
	if vmErr == nil && (ev.Name != name || ev.Value != value) {
		vmErr = vm.fail(PanicReplayMismatch, "replay mismatch: expected %s = %d, got %s = %d", ev.Name, ev.Value, name, value)
	}
	return vmErr
}

// CheckPanic compares a panic of the current run with the logged one.
// Replay failures themselves pass through unchanged.
func (r *Replayer) CheckPanic(vm *VM, actual *VMError) *VMError {
	if r == nil || vm == nil || actual == nil {
		return actual
	}
	switch actual.Code {
	case PanicReplayLogExhausted, PanicReplayMismatch, PanicInvalidReplayLogFormat:
		return actual
	}
	ev, vmErr := r.take(vm, kindPanic)
	if vmErr != nil {
		return vmErr
	}
	logged, _ := ev.Code.(string)
	if code, ok := ParsePanicCode(logged); !ok || code != actual.Code {
		return vm.fail(PanicReplayMismatch, "replay mismatch: expected panic %s, got %s", logged, actual.Code)
	}
	got := NewLogPanicEvent(actual, vm.Files)
	if ev.Msg != got.Msg || ev.At != got.At || !slices.Equal(ev.Bt, got.Bt) {
		return vm.fail(PanicReplayMismatch, "replay mismatch: panic does not match log")
	}
	r.ended = true
	return actual
}

// FinalizeExit checks that the log ends with the same normal exit and
// nothing follows the terminating event.
func (r *Replayer) FinalizeExit(vm *VM, code int) *VMError {
	if r == nil || vm == nil {
		return nil
	}
	if !r.ended {
		ev, vmErr := r.take(vm, kindExit)
		if vmErr != nil {
			return vmErr
		}
		// encoding/json кладёт числа в any как float64
		if logged, ok := ev.Code.(float64); !ok || int(logged) != code {
			return vm.fail(PanicReplayMismatch, "replay mismatch: expected exit code %v, got %d", ev.Code, code)
		}
		r.ended = true
	}
	if r.Remaining() > 0 {
		return vm.fail(PanicReplayMismatch, "replay mismatch: extra log events after termination")
	}
	return nil
}

func (r *Replayer) take(vm *VM, kind string) (logLine, *VMError) {
	if r.err != nil {
		return logLine{}, vm.fail(PanicInvalidReplayLogFormat, "invalid replay log: %v", r.err)
	}
	if r.pos >= len(r.events) {
		return logLine{}, vm.fail(PanicReplayLogExhausted, "replay log exhausted")
	}
	ev := r.events[r.pos]
	if ev.Kind != kind {
		return logLine{}, vm.fail(PanicReplayMismatch, "replay mismatch: expected %s, got %s", ev.Kind, kind)
	}
	r.pos++
	return ev, nil
}
