package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forlang/internal/diag"
	"forlang/internal/source"
	"forlang/internal/token"
)

func fileFor(t *testing.T, content string) *source.File {
	t.Helper()
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.fl", []byte(content)))
}

// lexAll scans content to EOF, EOF included.
func lexAll(t *testing.T, content string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(16)
	lx := New(fileFor(t, content), Options{Reporter: diag.BagReporter{Bag: bag}})
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, bag
		}
		require.LessOrEqual(t, len(toks), len(content)+1, "every token but EOF consumes input")
	}
}

func TestTokenLengthLimit(t *testing.T) {
	toks, bag := lexAll(t, strings.Repeat("b", maxTokenLength))
	assert.Equal(t, token.Ident, toks[0].Kind)
	assert.False(t, bag.HasErrors())

	// слишком длинный токен: диагностика и перемотка в конец, "for" не читается
	toks, bag = lexAll(t, strings.Repeat("a", maxTokenLength+1)+" for")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Invalid, toks[0].Kind)
	assert.Equal(t, token.EOF, toks[1].Kind)
	require.True(t, bag.HasErrors())
	assert.Equal(t, diag.LexTokenTooLong, bag.Items()[0].Code)
}

func TestStringLiteralErrors(t *testing.T) {
	toks, bag := lexAll(t, "\"ab\ncd\"")
	assert.Equal(t, token.Invalid, toks[0].Kind)
	assert.Equal(t, `"ab`, toks[0].Text)
	assert.Equal(t, diag.LexUnterminatedString, bag.Items()[0].Code)

	toks, _ = lexAll(t, `'it\'s'`)
	assert.Equal(t, token.StringLit, toks[0].Kind)
	assert.Equal(t, `'it\'s'`, toks[0].Text)
}
