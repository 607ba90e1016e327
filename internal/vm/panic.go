package vm

import (
	"fmt"
	"slices"
	"strings"

	"forlang/internal/source"
)

// PanicCode identifies a VM panic. Values are stable: they end up in
// execution logs.
type PanicCode int

const (
	PanicUnknownOperator PanicCode = 2001 + iota // operator outside the closed set
	PanicIntegerOverflow                         // ++/-- left the int64 range
	PanicIterationLimit                          // Options.MaxIterations exceeded
	PanicCancelled                               // context cancelled between iterations
	PanicMalformedTree                           // dangling node IDs in the tree
	PanicOutputFailed                            // the runtime rejected a line
)

const (
	PanicReplayMismatch         PanicCode = 3001 + iota // execution diverged from the log
	PanicReplayLogExhausted                             // the log ran out of events
	PanicInvalidReplayLogFormat                         // not a forlang execution log
)

func (c PanicCode) String() string { return fmt.Sprintf("VM%d", int(c)) }

// BacktraceFrame is one construct that was active when the panic happened,
// e.g. "loop#1", "update x++" or "printf".
type BacktraceFrame struct {
	Name string
	Span source.Span
}

// VMError is a runtime panic. Backtrace is innermost first.
type VMError struct {
	Code      PanicCode
	Message   string
	Span      source.Span
	Backtrace []BacktraceFrame
}

func (e *VMError) Error() string {
	return "panic " + e.Code.String() + ": " + e.Message
}

// FormatWithFiles renders the panic with file:line:col locations:
//
//	panic VM2002: integer overflow: ...
//	at prog.fl:1:30
//	backtrace:
//	  0: update x++ at prog.fl:1:30
func (e *VMError) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\nat %s\n", e.Error(), formatSpan(e.Span, files))
	if len(e.Backtrace) != 0 {
		sb.WriteString("backtrace:\n")
	}
	for i, f := range e.Backtrace {
		fmt.Fprintf(&sb, "  %d: %s at %s\n", i, f.Name, formatSpan(f.Span, files))
	}
	return sb.String()
}

func formatSpan(span source.Span, files *source.FileSet) string {
	var file *source.File
	if files != nil && span != (source.Span{File: span.File}) {
		file = files.Get(span.File)
	}
	if file == nil {
		return "<no-span>"
	}
	pos, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, pos.Line, pos.Col)
}

// frame is an entry of the VM construct stack.
type frame struct {
	name string
	span source.Span
}

// fail builds a VMError located at the innermost active construct.
func (vm *VM) fail(code PanicCode, format string, args ...any) *VMError {
	e := &VMError{Code: code, Message: fmt.Sprintf(format, args...)}
	if n := len(vm.frames); n > 0 {
		e.Span = vm.frames[n-1].span
		e.Backtrace = make([]BacktraceFrame, 0, n)
		for _, f := range slices.Backward(vm.frames) {
			e.Backtrace = append(e.Backtrace, BacktraceFrame{Name: f.name, Span: f.span})
		}
	}
	return e
}
