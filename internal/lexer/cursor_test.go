package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"forlang/internal/source"
)

func newTestCursor(content string) Cursor {
	fs := source.NewFileSet()
	id := fs.AddVirtual("cursor.fl", []byte(content))
	return NewCursor(fs.Get(id))
}

func TestCursorPeekBumpAndSpan(t *testing.T) {
	c := newTestCursor("x++;")
	m := c.Mark()
	assert.Equal(t, byte('x'), c.Peek())
	assert.Equal(t, byte('+'), c.PeekAt(1))
	assert.Equal(t, byte('x'), c.Bump())

	assert.False(t, c.Accept("--"))
	assert.True(t, c.Accept("++"))
	assert.Equal(t, []byte(";"), c.Rest())
	assert.False(t, c.Accept(";;"), "a literal longer than the input never matches")

	sp := c.SpanFrom(m)
	assert.Equal(t, uint32(0), sp.Start)
	assert.Equal(t, uint32(3), sp.End)

	c.Advance(10)
	assert.True(t, c.EOF())
	assert.Equal(t, uint32(4), c.Offset())
	assert.Zero(t, c.Bump(), "reads past EOF return 0")
	assert.Zero(t, c.PeekAt(3))
}

func TestCursorSkipToEOF(t *testing.T) {
	c := newTestCursor("for")
	c.SkipToEOF()
	assert.True(t, c.EOF())
	assert.Empty(t, c.Rest())
}
