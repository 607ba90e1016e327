package format

import (
	"bytes"
	"strings"

	"forlang/internal/source"
)

// Writer builds the formatted text line by line. Indentation is written
// lazily, right before the first byte of a line.
type Writer struct {
	sf      *source.File
	unit    string // one indentation level
	depth   int
	out     []byte
	midLine bool
}

func NewWriter(sf *source.File, opt Options) *Writer {
	opt = opt.withDefaults()
	unit := strings.Repeat(" ", opt.IndentWidth)
	if opt.UseTabs {
		unit = "\t"
	}
	return &Writer{sf: sf, unit: unit, out: make([]byte, 0, len(sf.Content)+16)}
}

func (w *Writer) Bytes() []byte { return w.out }

func (w *Writer) IndentPush() { w.depth++ }

func (w *Writer) IndentPop() { w.depth = max(w.depth-1, 0) }

func (w *Writer) write(p []byte) {
	if len(p) == 0 {
		return
	}
	if !w.midLine {
		for range w.depth {
			w.out = append(w.out, w.unit...)
		}
	}
	w.out = append(w.out, p...)
	w.midLine = p[len(p)-1] != '\n'
}

func (w *Writer) WriteString(s string) { w.write([]byte(s)) }

// Newline ends the current line; it never produces an empty line.
func (w *Writer) Newline() {
	if w.midLine {
		w.out = append(w.out, '\n')
	}
	w.midLine = false
}

// BlankLine leaves exactly one empty line before what comes next, except at
// the start of the output.
func (w *Writer) BlankLine() {
	if len(w.out) == 0 {
		return
	}
	w.Newline()
	if !bytes.HasSuffix(w.out, []byte("\n\n")) {
		w.out = append(w.out, '\n')
	}
}

// CopySpan copies the source text of sp verbatim.
func (w *Writer) CopySpan(sp source.Span) {
	if w.sf == nil || sp.File != w.sf.ID {
		return
	}
	n := len(w.sf.Content)
	if start, end := clampOffset(int(sp.Start), n), clampOffset(int(sp.End), n); start < end {
		w.write(w.sf.Content[start:end])
	}
}

// WriteComments copies the non-blank lines of a gap between loops, trimmed.
func (w *Writer) WriteComments(gap []byte) bool {
	wrote := false
	for line := range bytes.Lines(gap) {
		if line = bytes.TrimSpace(line); len(line) != 0 {
			w.Newline()
			w.write(line)
			wrote = true
		}
	}
	if wrote {
		w.Newline()
	}
	return wrote
}

func clampOffset(pos, n int) int {
	return min(max(pos, 0), n)
}
