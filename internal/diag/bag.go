package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag accumulates diagnostics for one file, up to an optional limit.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a Bag holding at most limit diagnostics; limit <= 0 means unlimited.
func NewBag(limit int) *Bag {
	hint := limit
	if hint <= 0 || hint > 64 {
		hint = 16
	}
	return &Bag{items: make([]Diagnostic, 0, hint), max: limit}
}

// Add возвращает false, когда лимит исчерпан и d отброшена.
func (b *Bag) Add(d Diagnostic) bool {
	if b.Full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Cap returns the configured limit clamped to uint16.
func (b *Bag) Cap() uint16 {
	n, err := safecast.Conv[uint16](b.max)
	if err != nil {
		return ^uint16(0)
	}
	return n
}

func (b *Bag) Full() bool {
	return b.max > 0 && len(b.items) >= b.max
}

func (b *Bag) HasErrors() bool   { return b.any(SevError) }
func (b *Bag) HasWarnings() bool { return b.any(SevWarning) }

func (b *Bag) any(atLeast Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= atLeast })
}

func (b *Bag) Len() int { return len(b.items) }

// Items exposes the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic { return b.items }

// Merge appends everything from other, raising the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if total := len(b.items) + len(other.items); b.max > 0 && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by file and position; at one position errors come before
// warnings, then codes ascend.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Select returns a new unlimited bag with the diagnostics keep accepts.
func (b *Bag) Select(keep func(Diagnostic) bool) *Bag {
	out := NewBag(0)
	for _, d := range b.items {
		if keep(d) {
			out.items = append(out.items, d)
		}
	}
	return out
}
