package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"forlang/internal/source"
)

// Cursor walks the bytes of one file. Reads past the end yield 0.
type Cursor struct {
	src  []byte
	file source.FileID
	off  uint32
	end  uint32
}

func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("lexer: file %s is too large: %w", f.Path, err))
	}
	return Cursor{src: f.Content, file: f.ID, end: end}
}

func (c *Cursor) Offset() uint32 { return c.off }

func (c *Cursor) EOF() bool { return c.off >= c.end }

func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt смотрит на n байт вперёд без сдвига.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.off+n >= c.end {
		return 0
	}
	return c.src[c.off+n]
}

// Rest is the unread input.
func (c *Cursor) Rest() []byte { return c.src[c.off:c.end] }

func (c *Cursor) Bump() byte {
	b := c.Peek()
	c.Advance(1)
	return b
}

// Advance skips n bytes, stopping at the end of input.
func (c *Cursor) Advance(n uint32) {
	c.off = min(c.off+n, c.end)
}

// Accept consumes lit when the input starts with it.
func (c *Cursor) Accept(lit string) bool {
	rest := c.Rest()
	if len(rest) < len(lit) || string(rest[:len(lit)]) != lit {
		return false
	}
	n, err := safecast.Conv[uint32](len(lit))
	if err != nil {
		return false
	}
	c.Advance(n)
	return true
}

// BumpWhile consumes bytes while pred holds and reports whether it moved.
func (c *Cursor) BumpWhile(pred func(byte) bool) bool {
	from := c.off
	for c.off < c.end && pred(c.src[c.off]) {
		c.off++
	}
	return c.off != from
}

func (c *Cursor) SkipToEOF() { c.off = c.end }

// Mark remembers a start offset for SpanFrom.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.off) }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file, Start: uint32(m), End: c.off}
}
