package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"forlang/internal/source"
)

// goldenLine is one rendered row: "<label> <code> <path>:<line>:<col> <msg>".
type goldenLine struct {
	label string
	code  string
	path  string
	line  uint32
	col   uint32
	msg   string
}

func (g goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", g.label, g.code, g.path, g.line, g.col, g.msg)
}

func compareGolden(a, b goldenLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.label, b.label),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders diagnostics one per line for golden files.
// Paths are relative to the file set base and use forward slashes.
// Spans in unknown files are skipped. No trailing newline.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var rows []goldenLine
	for i := range diags {
		d := &diags[i]
		code := d.Code.ID()
		if row, ok := goldenRow(fs, d.Primary, d.Severity.Label(), code, d.Message); ok {
			rows = append(rows, row)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if row, ok := goldenRow(fs, n.Span, "note", code, n.Msg); ok {
				rows = append(rows, row)
			}
		}
	}
	slices.SortStableFunc(rows, compareGolden)

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

func goldenRow(fs *source.FileSet, sp source.Span, label, code, msg string) (goldenLine, bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return goldenLine{}, false
	}
	pos, _ := fs.Resolve(sp)
	path := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return goldenLine{
		label: label,
		code:  code,
		path:  path,
		line:  pos.Line,
		col:   pos.Col,
		msg:   strings.Join(strings.Fields(msg), " "),
	}, true
}
