package grammar

import (
	"fmt"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/cursor"
)

// LiteralRule requires the next byte to be exactly Byte.
type LiteralRule struct {
	Byte byte
}

func Literal(b byte) LiteralRule {
	return LiteralRule{Byte: b}
}

// Space requires a single ' '.
func Space() LiteralRule {
	return Literal(' ')
}

// Eoln requires a single '\n'. A '\r' is not accepted in its place.
func Eoln() LiteralRule {
	return Literal('\n')
}

// ExpectLiteral consumes b at the cursor or rejects.
func ExpectLiteral(c *cursor.Cursor, b byte) error {
	return LiteralRule{Byte: b}.Check(c, nil)
}

func (r LiteralRule) Check(c *cursor.Cursor, _ *Scope) error {
	b, ok := c.Peek()
	if !ok {
		return apperr.NewFormatViolation(c.Offset(), r.name(),
			fmt.Sprintf("expected %s, got end of input", describe(r.Byte)))
	}
	if b != r.Byte {
		return apperr.NewFormatViolation(c.Offset(), r.name(),
			fmt.Sprintf("expected %s, got %s", describe(r.Byte), describe(b)))
	}
	c.Advance()
	return nil
}

func (r LiteralRule) name() string {
	switch r.Byte {
	case ' ':
		return "space"
	case '\n':
		return "eoln"
	default:
		return "literal"
	}
}

func (r LiteralRule) String() string {
	return describe(r.Byte)
}

// EOFRule requires the cursor to be exactly at the end of input.
type EOFRule struct{}

func EOF() EOFRule {
	return EOFRule{}
}

// ExpectEOF rejects if any byte, whitespace included, remains.
func ExpectEOF(c *cursor.Cursor) error {
	return EOFRule{}.Check(c, nil)
}

func (EOFRule) Check(c *cursor.Cursor, _ *Scope) error {
	if b, ok := c.Peek(); ok {
		return apperr.NewFormatViolation(c.Offset(), "eof",
			fmt.Sprintf("expected end of input, got %s", describe(b)))
	}
	return nil
}

func (EOFRule) String() string {
	return "end of input"
}

func describe(b byte) string {
	switch b {
	case ' ':
		return "space"
	case '\n':
		return `newline '\n'`
	case '\r':
		return `carriage return '\r'`
	case '\t':
		return `tab '\t'`
	}
	if b < 0x20 || b >= 0x7f {
		return fmt.Sprintf("byte 0x%02x", b)
	}
	return fmt.Sprintf("%q", rune(b))
}
