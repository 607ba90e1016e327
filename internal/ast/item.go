package ast

import (
	"forlang/internal/source"
)

type ItemKind uint8

const (
	ItemLoop ItemKind = iota
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// InitClause is "name = value".
type InitClause struct {
	Name      source.StringID
	NameSpan  source.Span
	Value     int64
	ValueSpan source.Span
	Span      source.Span
}

// CondClause is "name op value".
type CondClause struct {
	Name      source.StringID
	NameSpan  source.Span
	Op        RelOp
	OpSpan    source.Span
	Value     int64
	ValueSpan source.Span
	Span      source.Span
}

// UpdateClause is "name++" or "name--".
type UpdateClause struct {
	Name     source.StringID
	NameSpan source.Span
	Op       IncOp
	OpSpan   source.Span
	Span     source.Span
}

// LoopItem is one top-level for loop.
type LoopItem struct {
	ForSpan source.Span
	Init    InitClause
	Cond    CondClause
	Update  UpdateClause
	Body    StmtID // StmtBlock
}

type Items struct {
	Arena *Arena[ItemID, Item]
	Loops *Arena[PayloadID, LoopItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 4
	}
	return &Items{
		Arena: NewArena[ItemID, Item](capHint),
		Loops: NewArena[PayloadID, LoopItem](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payloadID PayloadID) ItemID {
	return i.Arena.Allocate(Item{Kind: kind, Span: span, Payload: payloadID})
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(id)
}

// NewLoop allocates the loop payload together with its Item.
func (i *Items) NewLoop(loop LoopItem, span source.Span) ItemID {
	return i.New(ItemLoop, span, i.Loops.Allocate(loop))
}

// Loop returns the loop payload of itemID.
func (i *Items) Loop(itemID ItemID) (*LoopItem, bool) {
	item := i.Get(itemID)
	if item == nil || item.Kind != ItemLoop || !item.Payload.IsValid() {
		return nil, false
	}
	loop := i.Loops.Get(item.Payload)
	return loop, loop != nil
}
