package definition

import (
	"testing"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/cursor"
	"github.com/DjordjeVuckovic/cptool/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBuild_Sum(t *testing.T) {
	d, err := LoadFromFile("testdata/sum.yaml")
	require.NoError(t, err)

	g, err := d.Build()
	require.NoError(t, err)
	assert.Equal(t, "sum", g.Name)
	assert.NotEmpty(t, g.Description)

	assert.NoError(t, g.ValidateBytes([]byte("3\n1 2 3\n")))
	assert.True(t, apperr.IsFormatViolation(g.ValidateBytes([]byte("3\n1 2\n"))))
	assert.True(t, apperr.IsFormatViolation(g.ValidateBytes([]byte("3\n1 2 3"))))
}

func TestBuild_NestedRepeat(t *testing.T) {
	d, err := LoadFromFile("testdata/matrix.yaml")
	require.NoError(t, err)

	g, err := d.Build()
	require.NoError(t, err)

	tests := []struct {
		input    string
		accepted bool
	}{
		{input: "2 3\n1 2 3\n-4 5 -6\n", accepted: true},
		{input: "1 1\n1000\n", accepted: true},
		{input: "2 3\n1 2 3\n4 5\n", accepted: false},
		{input: "1 2\n1 1001\n", accepted: false},
		{input: "1 2\n-0 1\n", accepted: false},
		{input: "1 1\n7\n\n", accepted: false},
	}

	for _, tt := range tests {
		c := cursor.New([]byte(tt.input))
		err := g.Validate(c)
		if tt.accepted {
			assert.NoError(t, err, "input %q", tt.input)
			assert.True(t, c.AtEOF())
		} else {
			assert.True(t, apperr.IsFormatViolation(err), "input %q should be rejected, got %v", tt.input, err)
		}
	}
}

func TestBuild_LiteralAndLeadingZeros(t *testing.T) {
	yamlDoc := `
kind: Grammar
version: v1
metadata:
  name: time
rules:
  - type: int
    min: 0
    max: 23
    leadingZeros: true
  - type: literal
    value: ":"
  - type: int
    min: 0
    max: 59
    leadingZeros: true
  - type: eoln
  - type: eof
`
	d, err := Parse([]byte(yamlDoc))
	require.NoError(t, err)
	g, err := d.Build()
	require.NoError(t, err)

	assert.NoError(t, g.ValidateBytes([]byte("09:05\n")))
	assert.Error(t, g.ValidateBytes([]byte("24:00\n")))
	assert.Error(t, g.ValidateBytes([]byte("09-05\n")))
}

func TestBuild_InvalidDefinition(t *testing.T) {
	d := &Definition{Kind: Kind, Version: Version, Metadata: Metadata{Name: "x"}}
	_, err := d.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one rule")
}

func TestFromGrammar_RoundTrip(t *testing.T) {
	builtins := []*grammar.Grammar{
		grammar.APlusB(grammar.DefaultV),
		grammar.Sum(grammar.DefaultN, grammar.DefaultV),
		grammar.New("csv", grammar.Repeat(3, grammar.Literal(','), grammar.Int("", 0, 9)), grammar.EOF()),
	}

	for _, g := range builtins {
		t.Run(g.Name, func(t *testing.T) {
			d, err := FromGrammar(g)
			require.NoError(t, err)

			out, err := yaml.Marshal(d)
			require.NoError(t, err)

			parsed, err := Parse(out)
			require.NoError(t, err)

			rebuilt, err := parsed.Build()
			require.NoError(t, err)
			assert.Equal(t, g.String(), rebuilt.String())
		})
	}
}

func TestFromGrammar_CheckFunc(t *testing.T) {
	g := grammar.New("custom", grammar.CheckFunc(func(*cursor.Cursor, *grammar.Scope) error { return nil }))

	_, err := FromGrammar(g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no definition form")
}
