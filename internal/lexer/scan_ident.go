package lexer

import "forlang/internal/token"

// scanIdentOrKeyword: буква или '_', затем буквы, цифры и combining marks.
// Ключевые слова регистрозависимы.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	if r, _ := lx.peekRune(); !isIdentStart(r) {
		return lx.scanOperatorOrPunct()
	}
	start := lx.cursor.Mark()
	lx.bumpRune()
	for r, n := lx.peekRune(); n > 0 && isIdentContinue(r); r, n = lx.peekRune() {
		lx.bumpRune()
	}
	tok := lx.emit(token.Ident, start)
	if kw, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = kw
	}
	return tok
}
