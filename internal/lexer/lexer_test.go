package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forlang/internal/diag"
	"forlang/internal/token"
)

func kindsOf(toks []token.Token) []token.Kind {
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind != token.EOF {
			kinds = append(kinds, tok.Kind)
		}
	}
	return kinds
}

func codesOf(bag *diag.Bag) []diag.Code {
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	return codes
}

func TestIdentifiersAndKeywords(t *testing.T) {
	for input, want := range map[string]token.Kind{
		"x":        token.Ident,
		"_count":   token.Ident,
		"i2":       token.Ident,
		"contador": token.Ident,
		"año":      token.Ident,
		"for":      token.KwFor,
		"printf":   token.KwPrintf,
		"break":    token.KwBreak,
		"For":      token.Ident,
		"fortune":  token.Ident,
	} {
		toks, bag := lexAll(t, input)
		require.Len(t, toks, 2, input)
		assert.Equal(t, want, toks[0].Kind, input)
		assert.Equal(t, input, toks[0].Text)
		assert.Zero(t, bag.Len(), input)
	}
}

func TestOperatorsAreGreedy(t *testing.T) {
	toks, _ := lexAll(t, "< <= > >= == != = ++ -- + - !")
	assert.Equal(t, []token.Kind{
		token.Lt, token.LtEq, token.Gt, token.GtEq, token.EqEq, token.BangEq,
		token.Assign, token.PlusPlus, token.MinusMinus, token.Plus, token.Minus, token.Bang,
	}, kindsOf(toks))

	toks, _ = lexAll(t, "x---1")
	assert.Equal(t, []token.Kind{token.Ident, token.MinusMinus, token.Minus, token.IntLit}, kindsOf(toks))

	toks, _ = lexAll(t, "x<=-5")
	assert.Equal(t, []token.Kind{token.Ident, token.LtEq, token.Minus, token.IntLit}, kindsOf(toks))
}

func TestFullLoop(t *testing.T) {
	toks, bag := lexAll(t, `for (x=0; x<3; x++) { printf("hi"); break; }`)
	assert.Equal(t, []token.Kind{
		token.KwFor, token.LParen,
		token.Ident, token.Assign, token.IntLit, token.Semicolon,
		token.Ident, token.Lt, token.IntLit, token.Semicolon,
		token.Ident, token.PlusPlus, token.RParen,
		token.LBrace,
		token.KwPrintf, token.LParen, token.StringLit, token.RParen, token.Semicolon,
		token.KwBreak, token.Semicolon,
		token.RBrace,
	}, kindsOf(toks))
	assert.False(t, bag.HasErrors())
}

func TestStringsKeepDelimiters(t *testing.T) {
	for _, lit := range []string{`"hola mundo"`, `'single'`, `"it's"`, `"a\"b"`, `""`} {
		toks, _ := lexAll(t, lit)
		assert.Equal(t, token.StringLit, toks[0].Kind, lit)
		assert.Equal(t, lit, toks[0].Text)
	}
}

func TestUnterminatedString(t *testing.T) {
	for _, input := range []string{`"abc`, "'abc\nx'"} {
		toks, bag := lexAll(t, input)
		assert.Equal(t, token.Invalid, toks[0].Kind, input)
		require.NotZero(t, bag.Len())
		assert.Equal(t, diag.LexUnterminatedString, bag.Items()[0].Code, input)
	}
}

func TestNumbers(t *testing.T) {
	toks, _ := lexAll(t, "0 1234567")
	assert.Equal(t, []string{"0", "1234567"}, []string{toks[0].Text, toks[1].Text})
	assert.Equal(t, []token.Kind{token.IntLit, token.IntLit}, kindsOf(toks))

	toks, bag := lexAll(t, "12ab;")
	assert.Equal(t, token.Invalid, toks[0].Kind)
	assert.Equal(t, "12ab", toks[0].Text)
	assert.Equal(t, token.Semicolon, toks[1].Kind, "lexing resumes after a bad number")
	assert.Equal(t, []diag.Code{diag.LexBadNumber}, codesOf(bag))
}

func TestCommentsAreLeadingTrivia(t *testing.T) {
	toks, bag := lexAll(t, "// header\n/* block */ for")
	require.Equal(t, token.KwFor, toks[0].Kind)
	var kinds []token.TriviaKind
	for _, tr := range toks[0].Leading {
		kinds = append(kinds, tr.Kind)
	}
	assert.Equal(t, []token.TriviaKind{
		token.TriviaLineComment, token.TriviaNewline, token.TriviaBlockComment, token.TriviaSpace,
	}, kinds)
	assert.Zero(t, bag.Len())
}

func TestUnterminatedBlockComment(t *testing.T) {
	toks, bag := lexAll(t, "for /* never closed")
	assert.Equal(t, []token.Kind{token.KwFor}, kindsOf(toks))
	assert.Equal(t, []diag.Code{diag.LexUnterminatedBlockComment}, codesOf(bag))
}

func TestUnknownCharacter(t *testing.T) {
	toks, bag := lexAll(t, "x # y")
	assert.Equal(t, []token.Kind{token.Ident, token.Invalid, token.Ident}, kindsOf(toks))
	assert.Equal(t, "#", toks[1].Text)
	require.Equal(t, []diag.Code{diag.LexUnknownChar}, codesOf(bag))
	assert.Contains(t, bag.Items()[0].Message, "U+0023")
}

func TestSpansMatchText(t *testing.T) {
	src := "for (contador=10; contador>=-2; contador--) { printf('x'); }"
	toks, _ := lexAll(t, src)
	for _, tok := range toks {
		assert.Equal(t, tok.Text, src[tok.Span.Start:tok.Span.End], tok.Kind.String())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := New(fileFor(t, "break;"), Options{})
	assert.Equal(t, token.KwBreak, lx.Peek().Kind)
	assert.Equal(t, token.KwBreak, lx.Peek().Kind)
	assert.Equal(t, token.KwBreak, lx.Next().Kind)
	assert.Equal(t, token.Semicolon, lx.Next().Kind)
	for range 3 {
		assert.Equal(t, token.EOF, lx.Next().Kind, "EOF repeats")
	}
}
