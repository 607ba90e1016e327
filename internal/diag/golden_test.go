package diag

import (
	"testing"

	"forlang/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	file := fs.Add("/workspace/testdata/golden/sample.fl", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SynUnreachableAfterBreak,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: 42, Start: 0, End: 0}, Msg: "unknown file is skipped"},
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error SYN2001 testdata/golden/sample.fl:1:1 first line second\n" +
		"note SYN2001 testdata/golden/sample.fl:2:1 note line\n" +
		"warning SYN2015 testdata/golden/sample.fl:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestCodeIDAndTitle(t *testing.T) {
	cases := []struct {
		code  Code
		id    string
		title string
	}{
		{LexUnknownChar, "LEX1001", "Unknown character"},
		{SynExpectSemicolon, "SYN2004", "Expect semicolon"},
		{Code(9999), "E0000", "Unknown error"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.id {
			t.Errorf("ID(%d) = %q, want %q", tc.code, got, tc.id)
		}
		if got := tc.code.Title(); got != tc.title {
			t.Errorf("Title(%d) = %q, want %q", tc.code, got, tc.title)
		}
	}
}

func TestBagLimitSortAndSelect(t *testing.T) {
	b := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }

	b.Add(New(SevWarning, SynUnreachableAfterBreak, sp(5), "w"))
	b.Add(NewError(SynExpectSemicolon, sp(1), "e1"))
	b.Add(NewError(SynExpectSemicolon, sp(1), "e1 again"))
	if b.Add(NewError(SynUnexpectedToken, sp(9), "dropped")) {
		t.Fatal("bag accepted a diagnostic past its limit")
	}
	if !b.Full() || !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("bag state flags are wrong")
	}

	b.Sort()
	if b.Items()[0].Primary.Start != 1 || b.Items()[2].Primary.Start != 5 {
		t.Fatalf("unexpected order: %+v", b.Items())
	}
	warnings := b.Select(func(d Diagnostic) bool { return d.Severity == SevWarning })
	if warnings.Len() != 1 || warnings.HasErrors() || b.Len() != 3 {
		t.Fatalf("Select: got %d warnings, source bag has %d", warnings.Len(), b.Len())
	}
}

func TestSeverityNames(t *testing.T) {
	if SevError.String() != "ERROR" || SevWarning.Label() != "warning" || Severity(9).String() != "UNKNOWN" {
		t.Fatal("unexpected severity names")
	}
}

func TestWithNoteDoesNotAlias(t *testing.T) {
	base := NewError(SynExpectSemicolon, source.Span{}, "x").WithNote(source.Span{}, "a")
	left := base.WithNote(source.Span{}, "left")
	right := base.WithNote(source.Span{}, "right")
	if left.Notes[1].Msg != "left" || right.Notes[1].Msg != "right" || len(base.Notes) != 1 {
		t.Fatalf("notes alias: %+v %+v", left.Notes, right.Notes)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	rb := ReportError(BagReporter{Bag: bag}, SynExpectSemicolon, source.Span{}, "expected ';'").
		WithNote(source.Span{Start: 1, End: 2}, "here").
		WithFixSuggestion(Fix{Title: "insert ';'"})
	rb.Emit()
	rb.Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Severity != SevError {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	for range 3 {
		r.Report(LexUnknownChar, SevError, source.Span{Start: 4, End: 5}, "unknown character '#'", nil, nil)
	}
	r.Report(LexUnknownChar, SevError, source.Span{Start: 6, End: 7}, "unknown character '#'", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
}
