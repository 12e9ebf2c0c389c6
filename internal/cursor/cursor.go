// Package cursor provides a forward-only read position over an in-memory input.
package cursor

import (
	"fmt"
	"io"
)

// Cursor is a forward-only view over a fully buffered input.
// The offset never moves backwards; once it reaches the end every Peek reports no byte.
type Cursor struct {
	input []byte
	pos   int
}

// New creates a Cursor positioned at the start of input.
func New(input []byte) *Cursor {
	return &Cursor{input: input, pos: 0}
}

// Load reads r once, to completion, and returns a Cursor over its contents.
func Load(r io.Reader) (*Cursor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return New(data), nil
}

// Peek returns the byte at the current offset without consuming it.
// ok is false at or past the end of the input.
func (c *Cursor) Peek() (b byte, ok bool) {
	if c.pos >= len(c.input) {
		return 0, false
	}
	return c.input[c.pos], true
}

// Advance consumes the byte returned by the preceding Peek.
func (c *Cursor) Advance() {
	if c.pos >= len(c.input) {
		panic("cursor: advance past end of input")
	}
	c.pos++
}

// Window returns up to n bytes starting at the current offset without consuming them.
func (c *Cursor) Window(n int) []byte {
	end := min(c.pos+n, len(c.input))
	return c.input[c.pos:end]
}

func (c *Cursor) Offset() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return len(c.input)
}

func (c *Cursor) AtEOF() bool {
	return c.pos >= len(c.input)
}
