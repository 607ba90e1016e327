package lexer

import (
	"forlang/internal/diag"
	"forlang/internal/source"
	"forlang/internal/token"
)

// scanString читает "..." или '...' целиком, с кавычками, в Token.Text.
// Escape-последовательности не раскрываются: '\' только экранирует
// следующий байт от закрывающей кавычки.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	closing := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\n':
			// перевод строки остаётся trivia следующего токена
			return lx.badString(lx.cursor.SpanFrom(start), "newline in string literal")
		case closing:
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.cursor.Advance(2)
		default:
			lx.cursor.Bump()
		}
	}
	return lx.badString(lx.cursor.SpanFrom(start), "unterminated string literal")
}

func (lx *Lexer) badString(sp source.Span, msg string) token.Token {
	lx.errLex(diag.LexUnterminatedString, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
