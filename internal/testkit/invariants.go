package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"forlang/internal/ast"
	"forlang/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span lies within content bounds and is non-empty when there are loops
// 2) every loop span is non-empty and fully contained in file.Span
// 3) header clauses and body statements lie inside their loop, in source order
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent || f.Span.Start > f.Span.End {
		return fmt.Errorf("file span out of bounds: %v (content %d)", f.Span, lenContent)
	}
	if len(f.Items) == 0 {
		return nil
	}
	if f.Span.Empty() {
		return fmt.Errorf("file span is empty: %v", f.Span)
	}
	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}

	var prevEnd uint32
	for i, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.Empty() {
			return fmt.Errorf("empty loop span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("loop span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if !f.Span.Contains(sp) {
			return fmt.Errorf("loop span %v is outside file span %v", sp, f.Span)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("loop %d overlaps previous loop: %v", i, sp)
		}
		prevEnd = sp.End

		loop, ok := b.Items.Loop(it)
		if !ok {
			return fmt.Errorf("item %d has no loop payload", it)
		}
		if err := checkLoop(b, loop, sp); err != nil {
			return fmt.Errorf("loop %d: %w", i, err)
		}
	}
	return nil
}

func checkLoop(b *ast.Builder, loop *ast.LoopItem, loopSpan source.Span) error {
	ordered := []struct {
		what string
		sp   source.Span
	}{
		{"for", loop.ForSpan},
		{"init", loop.Init.Span},
		{"cond", loop.Cond.Span},
		{"update", loop.Update.Span},
	}
	body := b.Stmts.Get(loop.Body)
	if body == nil {
		return fmt.Errorf("missing body")
	}
	ordered = append(ordered, struct {
		what string
		sp   source.Span
	}{"body", body.Span})

	var prevEnd uint32
	for _, part := range ordered {
		if !loopSpan.Contains(part.sp) {
			return fmt.Errorf("%s span %v is outside loop span %v", part.what, part.sp, loopSpan)
		}
		if part.sp.Start < prevEnd {
			return fmt.Errorf("%s span %v starts before the previous part ends", part.what, part.sp)
		}
		prevEnd = part.sp.End
	}

	block := b.Stmts.Block(loop.Body)
	if block == nil {
		return fmt.Errorf("body is not a block")
	}
	prevEnd = body.Span.Start
	for _, id := range block.Stmts {
		st := b.Stmts.Get(id)
		if st == nil {
			return fmt.Errorf("nil statement %d", id)
		}
		if !body.Span.Contains(st.Span) || st.Span.Start < prevEnd {
			return fmt.Errorf("%s statement span %v misplaced in body %v", st.Kind, st.Span, body.Span)
		}
		prevEnd = st.Span.End
	}
	return nil
}
