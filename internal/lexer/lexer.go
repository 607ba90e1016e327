package lexer

import (
	"unicode/utf8"

	"forlang/internal/diag"
	"forlang/internal/source"
	"forlang/internal/token"
)

// maxTokenLength bounds a single token. A longer one is reported and the
// rest of the file is skipped.
const maxTokenLength = 4096

type Options struct {
	// Reporter receives lexical errors; nil drops them and scanning goes on.
	Reporter diag.Reporter
}

// Lexer turns one file into significant tokens, attaching the trivia in
// front of each token to its Leading field.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	ahead    token.Token
	hasAhead bool
	hold     []token.Trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

// Next consumes a token. Once the input is exhausted it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.hasAhead {
		lx.hasAhead = false
		return lx.ahead
	}
	return lx.scan()
}

// Peek returns the token Next would return.
func (lx *Lexer) Peek() token.Token {
	if !lx.hasAhead {
		lx.ahead, lx.hasAhead = lx.scan(), true
	}
	return lx.ahead
}

// EmptySpan is a zero-length span at the cursor.
func (lx *Lexer) EmptySpan() source.Span {
	off := lx.cursor.Offset()
	return source.Span{File: lx.file.ID, Start: off, End: off}
}

func (lx *Lexer) scan() token.Token {
	lx.collectLeadingTrivia()
	if lx.cursor.EOF() {
		// хвостовые trivia к EOF не цепляем
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	var tok token.Token
	switch ch := lx.cursor.Peek(); {
	case ch >= utf8.RuneSelf || isIdentStart(rune(ch)):
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"', ch == '\'':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span, "token exceeds the maximum length")
		lx.cursor.SkipToEOF()
		tok.Kind, tok.Text = token.Invalid, ""
	}
	tok.Leading, lx.hold = lx.hold, nil
	return tok
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}

// emit closes the token that started at start.
func (lx *Lexer) emit(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
