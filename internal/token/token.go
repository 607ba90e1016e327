package token

import "forlang/internal/source"

// Token is one significant lexeme. Leading holds the whitespace and
// comments that preceded it.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// Kinds are declared in groups; the predicates below rely on that order.
func (t Token) in(lo, hi Kind) bool { return t.Kind >= lo && t.Kind <= hi }

func (t Token) IsKeyword() bool   { return t.in(KwFor, KwBreak) }
func (t Token) IsLiteral() bool   { return t.in(IntLit, StringLit) }
func (t Token) IsPunctOrOp() bool { return t.in(Assign, Minus) }

// IsRelOp: < <= > >= == !=
func (t Token) IsRelOp() bool { return t.in(Lt, BangEq) }

// IsIncOp: ++ --
func (t Token) IsIncOp() bool { return t.in(PlusPlus, MinusMinus) }
