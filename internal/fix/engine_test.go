package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"forlang/internal/diag"
	"forlang/internal/source"
)

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.fl", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.SynExpectSemicolon,
		Message: "missing semicolon",
		Primary: span,
		Fixes: []diag.Fix{
			{ID: "fix-duplicate", Title: "insert semicolon", Edits: []diag.TextEdit{{Span: span, NewText: ";"}}},
			{ID: "fix-duplicate", Title: "insert semicolon again", Edits: []diag.TextEdit{{Span: span, NewText: ";"}}},
			{Title: "empty"},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 2 || skips[0].Reason != "duplicate fix id" || skips[1].Reason != "fix has no edits" {
		t.Fatalf("unexpected skips %+v", skips)
	}
}

func writeProgram(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.fl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func TestApplyAllInsertsMissingSemicolons(t *testing.T) {
	src := `for (x=0; x<1; x++) { printf("a") break }`
	fs, id, path := writeProgram(t, src)

	at1 := source.Span{File: id, Start: 33, End: 33} // после printf("a")
	at2 := source.Span{File: id, Start: 39, End: 39} // после break
	diagnostics := []diag.Diagnostic{
		diag.NewError(diag.SynExpectSemicolon, at1, "expected ';'").
			WithFixSuggestion(InsertText("insert ';'", at1, ";", "", WithID(MakeFixID(diag.SynExpectSemicolon, at1)))),
		diag.NewError(diag.SynExpectSemicolon, at2, "expected ';'").
			WithFixSuggestion(InsertText("insert ';'", at2, ";", "", WithID(MakeFixID(diag.SynExpectSemicolon, at2)))),
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	got, _ := os.ReadFile(path)
	if want := `for (x=0; x<1; x++) { printf("a"); break; }`; string(got) != want {
		t.Fatalf("file content:\n got %q\nwant %q", got, want)
	}
}

func TestApplyOnceAndGuards(t *testing.T) {
	fs, id, path := writeProgram(t, "x =< 3")
	span := source.Span{File: id, Start: 2, End: 4}

	wrongGuard := diag.NewError(diag.SynExpectRelOp, span, "bad operator").
		WithFixSuggestion(ReplaceSpan("replace", span, "<=", ">>", WithID("guarded")))
	res, err := Apply(fs, []diag.Diagnostic{wrongGuard}, ApplyOptions{Mode: ApplyModeOnce})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "existing text does not match expected content" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}

	good := diag.NewError(diag.SynExpectRelOp, span, "bad operator").
		WithFixSuggestion(ReplaceSpan("replace", span, "<=", "=<", WithID("swap")))
	if _, err := Apply(fs, []diag.Diagnostic{good}, ApplyOptions{Mode: ApplyModeID, TargetID: "swap"}); err != nil {
		t.Fatalf("Apply by id: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "x <= 3" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyRefusesVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("mem.fl", []byte("break"))
	at := source.Span{File: id, Start: 5, End: 5}
	d := diag.NewError(diag.SynExpectSemicolon, at, "expected ';'").
		WithFixSuggestion(InsertText("insert ';'", at, ";", ""))

	res, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) || res.Skipped[0].Reason != "target file is virtual" {
		t.Fatalf("unexpected outcome %v %+v", err, res)
	}
}

func TestSpansConflict(t *testing.T) {
	mk := func(s, e uint32) diag.TextEdit { return diag.TextEdit{Span: source.Span{Start: s, End: e}} }
	cases := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{mk(1, 1), mk(1, 1), false},
		{mk(2, 2), mk(1, 3), true},
		{mk(0, 2), mk(2, 4), false},
		{mk(0, 3), mk(2, 4), true},
	}
	for i, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("case %d: got %v want %v", i, got, tc.want)
		}
	}
}
