package grammar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/cursor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectLiteral(t *testing.T) {
	c := cursor.New([]byte(" \n"))
	require.NoError(t, ExpectLiteral(c, ' '))
	require.NoError(t, ExpectLiteral(c, '\n'))
	assert.True(t, c.AtEOF())

	err := ExpectLiteral(c, '\n')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got end of input")

	err = ExpectLiteral(cursor.New([]byte("\r\n")), '\n')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carriage return")
}

func TestExpectEOF(t *testing.T) {
	require.NoError(t, ExpectEOF(cursor.New(nil)))

	for _, rest := range []string{" ", "\n", "3", "\x00"} {
		c := cursor.New([]byte(rest))
		err := ExpectEOF(c)
		assert.True(t, apperr.IsFormatViolation(err), "remaining %q must be rejected", rest)
	}
}

func TestAPlusB(t *testing.T) {
	g := APlusB(DefaultV)

	tests := []struct {
		name     string
		input    string
		accepted bool
	}{
		{name: "minimal", input: "1 2\n", accepted: true},
		{name: "both at upper bound", input: "1000000000 1000000000\n", accepted: true},
		{name: "zero below lower bound", input: "0 2\n", accepted: false},
		{name: "missing newline", input: "1 2", accepted: false},
		{name: "doubled separator", input: "1  2\n", accepted: false},
		{name: "tab separator", input: "1\t2\n", accepted: false},
		{name: "trailing garbage", input: "1 2\n3", accepted: false},
		{name: "trailing newline", input: "1 2\n\n", accepted: false},
		{name: "trailing space before newline", input: "1 2 \n", accepted: false},
		{name: "crlf", input: "1 2\r\n", accepted: false},
		{name: "leading zero", input: "01 2\n", accepted: false},
		{name: "exceeds V", input: "1000000001 2\n", accepted: false},
		{name: "second exceeds V", input: "1 1000000001\n", accepted: false},
		{name: "empty", input: "", accepted: false},
		{name: "only newline", input: "\n", accepted: false},
		{name: "negative", input: "-1 2\n", accepted: false},
		{name: "single number", input: "1\n", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cursor.New([]byte(tt.input))
			err := g.Validate(c)
			if tt.accepted {
				require.NoError(t, err)
				assert.True(t, c.AtEOF())
				return
			}
			assert.True(t, apperr.IsFormatViolation(err), "expected rejection, got %v", err)
		})
	}
}

func TestAPlusB_ViolationOffsets(t *testing.T) {
	g := APlusB(DefaultV)

	tests := []struct {
		input      string
		wantOffset int
		wantRule   string
	}{
		{input: "1  2\n", wantOffset: 2, wantRule: "b"},
		{input: "1 2", wantOffset: 3, wantRule: "eoln"},
		{input: "1 2\n3", wantOffset: 4, wantRule: "eof"},
		{input: "1 0\n", wantOffset: 2, wantRule: "b"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			var fv *apperr.FormatViolation
			require.ErrorAs(t, g.ValidateBytes([]byte(tt.input)), &fv)
			assert.Equal(t, tt.wantOffset, fv.Offset)
			assert.Equal(t, tt.wantRule, fv.Rule)
		})
	}
}

func TestSum(t *testing.T) {
	g := Sum(DefaultN, DefaultV)

	tests := []struct {
		name     string
		input    string
		accepted bool
	}{
		{name: "one value", input: "1\n0\n", accepted: true},
		{name: "three values", input: "3\n5 0 1000000000\n", accepted: true},
		{name: "too few values", input: "3\n5 0\n", accepted: false},
		{name: "too many values", input: "2\n5 0 1\n", accepted: false},
		{name: "zero count", input: "0\n\n", accepted: false},
		{name: "values on separate lines", input: "2\n1\n2\n", accepted: false},
		{name: "trailing space", input: "2\n1 2 \n", accepted: false},
		{name: "value exceeds V", input: "1\n1000000001\n", accepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateBytes([]byte(tt.input))
			if tt.accepted {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.IsFormatViolation(err), "expected rejection, got %v", err)
		})
	}
}

func TestSum_LargeInstance(t *testing.T) {
	const n = 10000
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d\n", n)
	for i := range n {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", i*7919%1000000001)
	}
	sb.WriteByte('\n')

	assert.NoError(t, Sum(DefaultN, DefaultV).ValidateBytes([]byte(sb.String())))
}

func TestRepeat(t *testing.T) {
	t.Run("constant count without separator", func(t *testing.T) {
		g := New("pairs", Repeat(2, nil, Seq(Int("", 0, 9), Eoln())), EOF())
		assert.NoError(t, g.ValidateBytes([]byte("1\n2\n")))
		assert.Error(t, g.ValidateBytes([]byte("1\n")))
	})

	t.Run("zero count consumes nothing", func(t *testing.T) {
		g := New("empty", Repeat(0, Space(), Int("", 0, 9)), EOF())
		assert.NoError(t, g.ValidateBytes(nil))
	})

	t.Run("undefined reference", func(t *testing.T) {
		g := New("broken", RepeatRef("n", nil, Int("", 0, 9)))
		err := g.ValidateBytes([]byte("1"))
		require.Error(t, err)
		assert.False(t, apperr.IsFormatViolation(err))
		assert.Contains(t, err.Error(), "was not read before use")
	})

	t.Run("negative reference", func(t *testing.T) {
		g := New("broken", Int("n", -5, 5), Space(), RepeatRef("n", nil, Int("", 0, 9)))
		err := g.ValidateBytes([]byte("-2 1"))
		require.Error(t, err)
		assert.True(t, apperr.IsFormatViolation(err))
		assert.Contains(t, err.Error(), `repeat count "n" is negative: -2`)

		var fv *apperr.FormatViolation
		require.ErrorAs(t, err, &fv)
		assert.Equal(t, 3, fv.Offset)
	})
}

func TestCheckFunc(t *testing.T) {
	called := false
	g := New("custom", CheckFunc(func(c *cursor.Cursor, _ *Scope) error {
		called = true
		return ExpectLiteral(c, '#')
	}), EOF())

	require.NoError(t, g.ValidateBytes([]byte("#")))
	assert.True(t, called)
}

func TestGrammar_Deterministic(t *testing.T) {
	g := APlusB(DefaultV)
	inputs := []string{"1 2\n", "0 2\n", "1 2", "1000000001 2\n"}

	for _, in := range inputs {
		first := g.ValidateBytes([]byte(in))
		second := g.ValidateBytes([]byte(in))
		assert.Equal(t, first == nil, second == nil, "verdict for %q changed", in)
		if first != nil {
			assert.Equal(t, first.Error(), second.Error())
		}
	}
}

func TestGrammar_String(t *testing.T) {
	s := APlusB(10).String()
	assert.Equal(t, `a_plus_b: a in [1, 10], space, b in [1, 10], newline '\n', end of input`, s)

	s = Sum(3, 9).String()
	assert.Contains(t, s, "n x (a_i in [0, 9]) separated by space")
}
