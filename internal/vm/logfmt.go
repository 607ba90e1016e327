package vm

import (
	"strconv"
	"strings"

	"forlang/internal/source"
)

// Execution logs are NDJSON: one header line, then one event per line.
// The last event is always exit or panic.
const LogVersion = 1

const (
	kindHeader = "header"
	kindOutput = "output"
	kindSet    = "set"
	kindExit   = "exit"
	kindPanic  = "panic"

	// overflowPolicy: ++/-- past the int64 range panics instead of wrapping.
	overflowPolicy = "panic"
)

type (
	LogPolicy struct {
		Overflow string `json:"overflow"`
	}

	LogHeader struct {
		V       int       `json:"v"`
		Kind    string    `json:"kind"`
		Forlang string    `json:"forlang"`
		Policy  LogPolicy `json:"policy"`
	}

	// LogOutputEvent is one printed line, without its newline.
	LogOutputEvent struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}

	// LogSetEvent is a store write by an init or update clause.
	LogSetEvent struct {
		Kind  string `json:"kind"`
		Name  string `json:"name"`
		Value int64  `json:"value"`
	}

	LogExitEvent struct {
		Kind string `json:"kind"`
		Code int    `json:"code"`
	}

	// LogPanicEvent mirrors VMError with locations rendered as file:line:col
	// and backtrace frames as "name@file:line:col".
	LogPanicEvent struct {
		Kind string   `json:"kind"`
		Code string   `json:"code"`
		Msg  string   `json:"msg"`
		At   string   `json:"at"`
		Bt   []string `json:"bt"`
	}
)

func NewLogHeader(version string) LogHeader {
	return LogHeader{V: LogVersion, Kind: kindHeader, Forlang: version, Policy: LogPolicy{Overflow: overflowPolicy}}
}

func NewLogPanicEvent(vmErr *VMError, files *source.FileSet) LogPanicEvent {
	ev := LogPanicEvent{Kind: kindPanic}
	if vmErr == nil {
		return ev
	}
	ev.Code, ev.Msg, ev.At = vmErr.Code.String(), vmErr.Message, formatSpan(vmErr.Span, files)
	ev.Bt = make([]string, len(vmErr.Backtrace))
	for i, f := range vmErr.Backtrace {
		ev.Bt[i] = f.Name + "@" + formatSpan(f.Span, files)
	}
	return ev
}

// ParsePanicCode is the inverse of PanicCode.String: "VM2001" -> 2001.
func ParsePanicCode(code string) (PanicCode, bool) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(code), "VM")
	if !ok || digits == "" || strings.ContainsAny(digits, "+-") {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil || n == 0 {
		return 0, false
	}
	return PanicCode(n), true
}
