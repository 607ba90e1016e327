package ast

import (
	"forlang/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtOutput
	StmtBreak
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "block"
	case StmtOutput:
		return "output"
	case StmtBreak:
		return "break"
	}
	return "unknown"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// BlockStmt is the statement sequence of a loop body.
type BlockStmt struct {
	Stmts []StmtID
}

// OutputStmt is printf(<literal>); Literal keeps both delimiters.
type OutputStmt struct {
	Literal     string
	LiteralSpan source.Span
}

type Stmts struct {
	Arena   *Arena[StmtID, Stmt]
	Blocks  *Arena[PayloadID, BlockStmt]
	Outputs *Arena[PayloadID, OutputStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Stmts{
		Arena:   NewArena[StmtID, Stmt](capHint),
		Blocks:  NewArena[PayloadID, BlockStmt](capHint),
		Outputs: NewArena[PayloadID, OutputStmt](capHint),
	}
}

func (s *Stmts) New(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload})
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(id)
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.New(StmtBlock, span, s.Blocks.Allocate(BlockStmt{Stmts: stmts}))
}

func (s *Stmts) NewOutput(span source.Span, literal string, literalSpan source.Span) StmtID {
	return s.New(StmtOutput, span, s.Outputs.Allocate(OutputStmt{Literal: literal, LiteralSpan: literalSpan}))
}

func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.New(StmtBreak, span, NoPayloadID)
}

func (s *Stmts) Block(id StmtID) *BlockStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtBlock {
		return nil
	}
	return s.Blocks.Get(stmt.Payload)
}

func (s *Stmts) Output(id StmtID) *OutputStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtOutput {
		return nil
	}
	return s.Outputs.Get(stmt.Payload)
}
