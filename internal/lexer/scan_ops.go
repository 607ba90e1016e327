package lexer

import (
	"fmt"
	"unicode/utf8"

	"forlang/internal/diag"
	"forlang/internal/token"
)

var twoByteOps = [...]struct {
	lit  string
	kind token.Kind
}{
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"<=", token.LtEq},
	{">=", token.GtEq},
	{"==", token.EqEq},
	{"!=", token.BangEq},
}

// scanOperatorOrPunct: двухсимвольные операторы проверяются раньше односимвольных.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	for _, op := range twoByteOps {
		if lx.cursor.Accept(op.lit) {
			return lx.emit(op.kind, start)
		}
	}

	var k token.Kind
	switch lx.cursor.Peek() {
	case '=':
		k = token.Assign
	case ';':
		k = token.Semicolon
	case ',':
		k = token.Comma
	case '(':
		k = token.LParen
	case ')':
		k = token.RParen
	case '{':
		k = token.LBrace
	case '}':
		k = token.RBrace
	case '<':
		k = token.Lt
	case '>':
		k = token.Gt
	case '!':
		k = token.Bang
	case '+':
		k = token.Plus
	case '-':
		k = token.Minus
	default:
		// неизвестный символ: съедаем целую руну, чтобы не резать UTF-8
		r, _ := lx.peekRune()
		lx.bumpRune()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+describeRune(r))
		return tok
	}
	lx.cursor.Bump()
	return lx.emit(k, start)
}

func describeRune(r rune) string {
	if r == utf8.RuneError {
		return "(invalid UTF-8)"
	}
	return fmt.Sprintf("%q (U+%04X)", r, r)
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
