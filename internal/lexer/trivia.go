package lexer

import (
	"forlang/internal/diag"
	"forlang/internal/token"
)

// collectLeadingTrivia fills lx.hold with the trivia before the next token.
// A run of blanks is one TriviaSpace and a run of '\n' one TriviaNewline.
// Block comments do not nest; an unclosed one is reported and runs to EOF.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for {
		start := lx.cursor.Mark()
		var kind token.TriviaKind
		switch {
		case lx.cursor.BumpWhile(isSpace):
			kind = token.TriviaSpace
		case lx.cursor.BumpWhile(func(b byte) bool { return b == '\n' }):
			kind = token.TriviaNewline
		case lx.cursor.Accept("//"):
			lx.cursor.BumpWhile(func(b byte) bool { return b != '\n' })
			kind = token.TriviaLineComment
		case lx.cursor.Accept("/*"):
			lx.skipBlockComment(start)
			kind = token.TriviaBlockComment
		default:
			// одиночный '/' уйдёт в scanOperatorOrPunct как неизвестный символ
			return
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
	}
}

func (lx *Lexer) skipBlockComment(start Mark) {
	for !lx.cursor.Accept("*/") {
		if lx.cursor.EOF() {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
			return
		}
		lx.cursor.Bump()
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\f', '\v':
		return true
	}
	return false
}
