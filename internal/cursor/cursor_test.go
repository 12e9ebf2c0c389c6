package cursor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_PeekAdvance(t *testing.T) {
	c := New([]byte("ab"))

	b, ok := c.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('a'), b)
	assert.Equal(t, 0, c.Offset(), "peek must not consume")

	c.Advance()
	b, ok = c.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('b'), b)

	c.Advance()
	_, ok = c.Peek()
	assert.False(t, ok)
	assert.True(t, c.AtEOF())
	assert.Equal(t, 2, c.Offset())
}

func TestCursor_Empty(t *testing.T) {
	c := New(nil)

	_, ok := c.Peek()
	assert.False(t, ok)
	assert.True(t, c.AtEOF())
	assert.Equal(t, 0, c.Len())
}

func TestCursor_AdvancePastEndPanics(t *testing.T) {
	c := New([]byte("x"))
	c.Advance()

	assert.Panics(t, func() { c.Advance() })
	assert.Equal(t, 1, c.Offset())
}

func TestCursor_Window(t *testing.T) {
	c := New([]byte("12 34\n"))
	c.Advance()

	assert.Equal(t, []byte("2 3"), c.Window(3))
	assert.Equal(t, []byte("2 34\n"), c.Window(100))
	assert.Equal(t, 1, c.Offset())

	for !c.AtEOF() {
		c.Advance()
	}
	assert.Empty(t, c.Window(4))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestLoad(t *testing.T) {
	t.Run("reads whole stream", func(t *testing.T) {
		c, err := Load(strings.NewReader("1 2\n"))
		require.NoError(t, err)
		assert.Equal(t, 4, c.Len())
		assert.Equal(t, 0, c.Offset())
	})

	t.Run("read error", func(t *testing.T) {
		_, err := Load(failingReader{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk on fire")
	})
}
