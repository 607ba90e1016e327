package diagfmt

import (
	"cmp"
	"encoding/json"
	"io"
	"slices"

	"forlang/internal/diag"
	"forlang/internal/source"
)

// JSONLocation is a span in machine-readable form. Line/column fields are
// only filled when JSONOpts.IncludePositions is set.
type JSONLocation struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type JSONNote struct {
	Message  string       `json:"message"`
	Location JSONLocation `json:"location"`
}

type JSONEdit struct {
	Location    JSONLocation `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type JSONFix struct {
	ID            string     `json:"id,omitempty"`
	Title         string     `json:"title"`
	Kind          string     `json:"kind"`
	Applicability string     `json:"applicability"`
	IsPreferred   bool       `json:"is_preferred,omitempty"`
	Edits         []JSONEdit `json:"edits,omitempty"`
}

type JSONDiagnostic struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location JSONLocation `json:"location"`
	Notes    []JSONNote   `json:"notes,omitempty"`
	Fixes    []JSONFix    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the document written by JSON.
type DiagnosticsOutput struct {
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Count       int              `json:"count"`
}

type jsonEncoder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (e jsonEncoder) location(sp source.Span) JSONLocation {
	loc := JSONLocation{StartByte: sp.Start, EndByte: sp.End}
	if f := e.fs.Get(sp.File); f != nil {
		loc.File = displayPath(f, e.fs, e.opts.PathMode)
	}
	if e.opts.IncludePositions {
		start, end := e.fs.Resolve(sp)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (e jsonEncoder) diagnostic(d *diag.Diagnostic) JSONDiagnostic {
	out := JSONDiagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: e.location(d.Primary),
	}
	// у таймингов полезная нагрузка лежит в заметке
	if e.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, JSONNote{Message: n.Msg, Location: e.location(n.Span)})
		}
	}
	if e.opts.IncludeFixes {
		for _, fx := range rankFixes(d.Fixes) {
			out.Fixes = append(out.Fixes, e.fix(fx))
		}
	}
	return out
}

func (e jsonEncoder) fix(fx diag.Fix) JSONFix {
	out := JSONFix{
		ID:            fx.ID,
		Title:         fx.Title,
		Kind:          fx.Kind.String(),
		Applicability: fx.Applicability.String(),
		IsPreferred:   fx.IsPreferred,
	}
	for _, edit := range fx.Edits {
		je := JSONEdit{Location: e.location(edit.Span), NewText: edit.NewText, OldText: edit.OldText}
		switch {
		case e.opts.IncludePreviews:
			if p, err := previewEdit(e.fs, edit); err == nil {
				je.BeforeLines, je.AfterLines = p.before, p.after
			}
		case je.OldText == "":
			je.OldText = e.fs.Text(edit.Span)
		}
		out.Edits = append(out.Edits, je)
	}
	return out
}

// rankFixes returns a sorted copy: preferred first, then safer, then by kind, title and id.
func rankFixes(fixes []diag.Fix) []diag.Fix {
	ranked := slices.Clone(fixes)
	slices.SortStableFunc(ranked, func(a, b diag.Fix) int {
		if a.IsPreferred != b.IsPreferred {
			if a.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.Applicability, b.Applicability),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Title, b.Title),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return ranked
}

// BuildDiagnosticsOutput converts the bag without serializing it.
// opts.Max truncates the output only; the bag is not touched.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	enc := jsonEncoder{fs: fs, opts: opts}
	out := DiagnosticsOutput{Diagnostics: make([]JSONDiagnostic, 0, len(items))}
	for i := range items {
		out.Diagnostics = append(out.Diagnostics, enc.diagnostic(&items[i]))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the bag as one indented document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
