package parser

import (
	"errors"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"forlang/internal/diag"
	"forlang/internal/source"
	"forlang/internal/token"
)

// parseIdent ожидает Ident, нормализует его в NFC и интернирует.
// Иначе репортит SynExpectIdentifier.
func (p *Parser) parseIdent() (source.StringID, token.Token, bool) {
	tok := p.lx.Peek()
	if tok.Kind != token.Ident {
		msg := "expected identifier, got " + describe(tok)
		if tok.IsKeyword() {
			msg = "keyword '" + tok.Text + "' cannot be used as a variable name"
		}
		p.err(diag.SynExpectIdentifier, msg)
		return source.NoStringID, tok, false
	}
	p.advance()
	return p.arenas.StringsInterner.Intern(norm.NFC.String(tok.Text)), tok, true
}

// parseNumber: numero := "-"? [0-9]+, в пределах int64.
func (p *Parser) parseNumber() (int64, source.Span, bool) {
	start := p.lx.Peek()
	negative := false
	if start.Kind == token.Minus {
		p.advance()
		negative = true
	}
	lit, ok := p.expect(token.IntLit, diag.SynExpectNumber, "expected integer literal")
	if !ok {
		return 0, lit.Span, false
	}
	sp := start.Span.Cover(lit.Span)

	text := lit.Text
	if negative {
		text = "-" + text
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		msg := "invalid integer literal " + text
		if errors.Is(err, strconv.ErrRange) {
			msg = "integer literal " + text + " does not fit in 64 bits"
		}
		p.report(diag.SynIntegerOutOfRange, diag.SevError, sp, msg)
		return 0, sp, false
	}
	return v, sp, true
}
