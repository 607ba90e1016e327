package vm

import (
	"bufio"
	"io"
	"slices"
	"sync"
)

// Runtime receives the lines a program emits.
type Runtime interface {
	// Output is called once per executed output statement, in order.
	Output(line string) error
}

// DiscardRuntime drops every line.
type DiscardRuntime struct{}

// Output implements Runtime.
func (DiscardRuntime) Output(string) error { return nil }

// WriterRuntime writes each line followed by '\n' to W.
type WriterRuntime struct {
	mu sync.Mutex
	w  *bufio.Writer
}

// NewWriterRuntime wraps w. Call Flush when the program finishes.
func NewWriterRuntime(w io.Writer) *WriterRuntime {
	return &WriterRuntime{w: bufio.NewWriter(w)}
}

// Output implements Runtime.
func (r *WriterRuntime) Output(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.w.WriteString(line); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

// Flush writes buffered lines to the underlying writer.
func (r *WriterRuntime) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Flush()
}

// BufferRuntime keeps emitted lines in memory.
type BufferRuntime struct {
	mu    sync.Mutex
	lines []string
}

// NewBufferRuntime creates an empty BufferRuntime.
func NewBufferRuntime() *BufferRuntime {
	return &BufferRuntime{}
}

// Output implements Runtime.
func (r *BufferRuntime) Output(line string) error {
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
	return nil
}

// Lines returns a copy of the collected lines.
func (r *BufferRuntime) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.lines)
}

// TeeRuntime forwards each line to every runtime in order.
type TeeRuntime []Runtime

// Output implements Runtime.
func (t TeeRuntime) Output(line string) error {
	for _, rt := range t {
		if err := rt.Output(line); err != nil {
			return err
		}
	}
	return nil
}
