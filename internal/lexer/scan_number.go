package lexer

import (
	"forlang/internal/diag"
	"forlang/internal/token"
)

// scanNumber reads [0-9]+. A sign is a separate token. Letters, digits and
// dots glued to the digits ("12ab", "1.5") make the whole run one bad number.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.BumpWhile(isDec)
	if !lx.cursor.BumpWhile(func(b byte) bool { return b == '.' || isWordByte(b) }) {
		return lx.emit(token.IntLit, start)
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexBadNumber, tok.Span, "malformed integer literal "+quote(tok.Text))
	return tok
}
