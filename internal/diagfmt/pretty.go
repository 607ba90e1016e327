package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"forlang/internal/diag"
	"forlang/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret, fix *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		fix:    color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.gutter, p.caret, p.fix} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается, что bag.Sort() уже вызван. Для каждой диагностики печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку исходника с подчёркиванием ^~~~ по Span, затем заметки и исправления.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		return
	}
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", displayPath(f, fs, opts.PathMode), start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message,
	)
	writeSnippet(w, f, fs, d.Primary, int(opts.Context), p)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			ns, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %d:%d: %s\n", p.note.Sprint("note:"), ns.Line, ns.Col, note.Msg)
		}
	}
	if opts.ShowFixes {
		for _, fx := range d.Fixes {
			title := fx.Title
			if fx.ID != "" {
				title = fmt.Sprintf("%s [%s]", title, fx.ID)
			}
			fmt.Fprintf(w, "  %s %s (%s)\n", p.fix.Sprint("fix:"), title, fx.Applicability)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range fx.Edits {
				preview, err := previewEdit(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s\n", p.err.Sprint("- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s\n", p.fix.Sprint("+ "+line))
				}
			}
		}
	}
}

func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, span source.Span, extra int, p palette) {
	start, end := fs.Resolve(span)
	first := start.Line
	if extra > 0 && int(first) > extra {
		first -= uint32(extra)
	} else if extra > 0 {
		first = 1
	}
	last := start.Line + uint32(max(extra, 0))
	if total := uint32(len(f.LineIdx)) + 1; last > total {
		last = total
	}
	gw := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := strings.ReplaceAll(f.GetLine(ln), "\t", "    ")
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gw, ln), text)
		if ln != start.Line {
			continue
		}
		raw := f.GetLine(ln)
		col := min(int(start.Col)-1, len(raw))
		lead := runewidth.StringWidth(strings.ReplaceAll(raw[:col], "\t", "    "))
		width := 1
		if end.Line == start.Line && end.Col > start.Col {
			endCol := min(int(end.Col)-1, len(raw))
			width = max(runewidth.StringWidth(raw[col:endCol]), 1)
		}
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gw, ""), strings.Repeat(" ", lead), p.caret.Sprint(marker))
	}
}
