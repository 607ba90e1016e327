package fix

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"

	"forlang/internal/diag"
	"forlang/internal/source"
)

// ErrNoFixes is returned when nothing was applied.
var ErrNoFixes = errors.New("no applicable fixes found")

type ApplyMode uint8

const (
	// ApplyModeOnce applies the first fix in source order, preferring always-safe ones.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every always-safe fix.
	ApplyModeAll
	// ApplyModeID applies the fix named by TargetID.
	ApplyModeID
)

type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

type FileChange struct {
	Path      string
	EditCount int
}

type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

const reasonNeedsAll = "fix requires all fixes to be applied"

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

func (c candidate) skipped(reason string) SkippedFix {
	return SkippedFix{ID: c.fix.ID, Title: c.fix.Title, Reason: reason}
}

// Apply picks fixes from diagnostics according to opts and rewrites the
// affected files. A fix is applied with all its edits or not at all; a fix
// overlapping an already accepted one is skipped.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	if fs == nil {
		return &ApplyResult{}, errors.New("fix: FileSet is nil")
	}
	a := &applier{fs: fs, baseDir: fs.BaseDir(), pending: map[source.FileID][]diag.TextEdit{}}

	cands, skips := gatherCandidates(diagnostics)
	a.res.Skipped = skips
	slices.SortStableFunc(cands, func(x, y candidate) int {
		px, py := x.diag.Primary, y.diag.Primary
		return cmp.Or(
			cmp.Compare(px.File, py.File),
			cmp.Compare(px.Start, py.Start),
			cmp.Compare(px.End, py.End),
			cmp.Compare(x.order, y.order),
		)
	})
	for _, c := range a.choose(cands, opts) {
		a.accept(c)
	}
	if len(a.res.Applied) == 0 {
		return &a.res, ErrNoFixes
	}
	return &a.res, a.flush()
}

// gatherCandidates keeps every fix that has edits. A fix without an ID gets
// one derived from the diagnostic; a repeated ID is skipped.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
		seen  = map[string]bool{}
	)
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if f.ID == "" && len(f.Edits) > 0 {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			c := candidate{diag: d, fix: f, order: len(cands)}
			switch {
			case len(f.Edits) == 0:
				skips = append(skips, c.skipped("fix has no edits"))
			case seen[f.ID]:
				skips = append(skips, c.skipped("duplicate fix id"))
			default:
				seen[f.ID] = true
				cands = append(cands, c)
			}
		}
	}
	return cands, skips
}

type applier struct {
	fs      *source.FileSet
	baseDir string
	res     ApplyResult
	// pending holds accepted edits per file in original offsets.
	pending map[source.FileID][]diag.TextEdit
	order   []source.FileID
}

func (a *applier) skip(s SkippedFix) { a.res.Skipped = append(a.res.Skipped, s) }

// choose selects the candidates opts asks for; cands are in source order.
func (a *applier) choose(cands []candidate, opts ApplyOptions) []candidate {
	switch opts.Mode {
	case ApplyModeID:
		i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		switch {
		case i < 0:
			a.skip(SkippedFix{ID: opts.TargetID, Reason: "fix id not found"})
		case cands[i].fix.RequiresAll:
			a.skip(SkippedFix{ID: opts.TargetID, Reason: reasonNeedsAll})
		default:
			return cands[i : i+1]
		}

	case ApplyModeAll:
		var out []candidate
		for _, c := range cands {
			if c.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				out = append(out, c)
			} else {
				a.skip(c.skipped("applicability is " + c.fix.Applicability.String()))
			}
		}
		return out

	case ApplyModeOnce:
		var first *candidate
		for i, c := range cands {
			switch {
			case c.fix.RequiresAll:
				a.skip(c.skipped(reasonNeedsAll))
			case c.fix.Applicability == diag.FixApplicabilityAlwaysSafe:
				return []candidate{c}
			case first == nil:
				first = &cands[i]
			}
		}
		if first != nil {
			return []candidate{*first}
		}
	}
	return nil
}

func (a *applier) accept(c candidate) {
	if reason := a.check(c.fix.Edits); reason != "" {
		a.skip(c.skipped(reason))
		return
	}
	for _, e := range c.fix.Edits {
		id := e.Span.File
		if _, ok := a.pending[id]; !ok {
			a.order = append(a.order, id)
		}
		a.pending[id] = append(a.pending[id], e)
	}
	var primary string
	if f := a.fs.Get(c.diag.Primary.File); f != nil {
		primary = f.FormatPath("auto", a.baseDir)
	}
	a.res.Applied = append(a.res.Applied, AppliedFix{
		ID:            c.fix.ID,
		Title:         c.fix.Title,
		Code:          c.diag.Code,
		Message:       c.diag.Message,
		Applicability: c.fix.Applicability,
		PrimaryPath:   primary,
		EditCount:     len(c.fix.Edits),
	})
}

// check returns why edits cannot be applied, or "".
func (a *applier) check(edits []diag.TextEdit) string {
	for i, e := range edits {
		file := a.fs.Get(e.Span.File)
		switch {
		case file == nil:
			return "target file is unknown"
		case file.Flags&source.FileVirtual != 0:
			return "target file is virtual"
		case e.Span.Start > e.Span.End || int(e.Span.End) > len(file.Content):
			return "edit span out of range"
		case e.OldText != "" && string(file.Content[e.Span.Start:e.Span.End]) != e.OldText:
			return "existing text does not match expected content"
		}
		clash := func(o diag.TextEdit) bool { return o.Span.File == e.Span.File && spansConflict(o, e) }
		if slices.ContainsFunc(a.pending[e.Span.File], clash) {
			return "conflicts with previously applied edits in " + file.FormatPath("auto", a.baseDir)
		}
		if slices.ContainsFunc(edits[:i], clash) {
			return "fix has overlapping edits"
		}
	}
	return ""
}

func (a *applier) flush() error {
	for _, id := range a.order {
		file, edits := a.fs.Get(id), a.pending[id]
		perm := os.FileMode(0o644)
		if info, err := os.Stat(file.Path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(file.Path, splice(file.Content, edits), perm); err != nil {
			return fmt.Errorf("write %s: %w", file.Path, err)
		}
		a.res.FileChanges = append(a.res.FileChanges, FileChange{
			Path:      file.FormatPath("relative", a.baseDir),
			EditCount: len(edits),
		})
	}
	slices.SortFunc(a.res.FileChanges, func(x, y FileChange) int { return cmp.Compare(x.Path, y.Path) })
	return nil
}

// splice applies non-overlapping edits to content in one forward pass.
// Insertions at the same offset keep their acceptance order.
func splice(content []byte, edits []diag.TextEdit) []byte {
	edits = slices.Clone(edits)
	slices.SortStableFunc(edits, func(x, y diag.TextEdit) int {
		return cmp.Or(cmp.Compare(x.Span.Start, y.Span.Start), cmp.Compare(x.Span.End, y.Span.End))
	})
	out := make([]byte, 0, len(content)+16)
	var at uint32
	for _, e := range edits {
		out = append(append(out, content[at:e.Span.Start]...), e.NewText...)
		at = e.Span.End
	}
	return append(out, content[at:]...)
}

// spansConflict compares half-open spans. Two insertions never conflict; an
// insertion conflicts with a span that strictly contains its position.
func spansConflict(x, y diag.TextEdit) bool {
	xs, xe, ys, ye := x.Span.Start, x.Span.End, y.Span.Start, y.Span.End
	switch {
	case xs == xe && ys == ye:
		return false
	case xs == xe:
		return ys <= xs && xs < ye
	case ys == ye:
		return xs <= ys && ys < xe
	}
	return xs < ye && ys < xe
}
