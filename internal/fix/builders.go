package fix

import (
	"fmt"

	"forlang/internal/diag"
	"forlang/internal/source"
)

// Option adjusts a fix after its edits are set. A nil Option is skipped.
type Option func(*diag.Fix)

func WithID(id string) Option { return func(f *diag.Fix) { f.ID = id } }

func WithKind(kind diag.FixKind) Option { return func(f *diag.Fix) { f.Kind = kind } }

func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

// Preferred ranks the fix first among the alternatives of its diagnostic.
func Preferred() Option { return func(f *diag.Fix) { f.IsPreferred = true } }

// WithRequiresAll makes the fix apply only in "all" mode, together with its siblings.
func WithRequiresAll() Option { return func(f *diag.Fix) { f.RequiresAll = true } }

// MakeFixID derives a stable id, "SYN2004-<file>-<start>-<end>", from a code and a span.
func MakeFixID(code diag.Code, at source.Span) string {
	return fmt.Sprintf("%s-%d-%d-%d", code.ID(), at.File, at.Start, at.End)
}

// newFix is an always-safe quick fix unless opts say otherwise.
func newFix(title string, edit diag.TextEdit, opts []Option) diag.Fix {
	f := diag.Fix{Title: title, Edits: []diag.TextEdit{edit}}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// InsertText inserts text at the empty span at. guard, when set, must match
// the current content of at, which for an insertion is always empty.
func InsertText(title string, at source.Span, text, guard string, opts ...Option) diag.Fix {
	return newFix(title, diag.TextEdit{Span: at, NewText: text, OldText: guard}, opts)
}

// ReplaceSpan swaps the text under span for newText; expect guards the old text.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return newFix(title, diag.TextEdit{Span: span, NewText: newText, OldText: expect}, opts)
}
