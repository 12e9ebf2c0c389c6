package registry

import (
	"errors"
	"testing"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	r := NewDefault()
	assert.Equal(t, []string{"a_plus_b", "sum"}, r.Names())

	g, err := r.Get("a_plus_b")
	require.NoError(t, err)
	assert.NoError(t, g.ValidateBytes([]byte("1 2\n")))
}

func TestGet_Suggestions(t *testing.T) {
	r := NewDefault()

	_, err := r.Get("a_plus_c")
	require.Error(t, err)

	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "a_plus_c", nf.Name)
	assert.Equal(t, []string{"a_plus_b"}, nf.Suggestions)
	assert.Contains(t, err.Error(), `did you mean "a_plus_b"?`)

	_, err = r.Get("knapsack")
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, nf.Suggestions)
}

func TestRegister_Replaces(t *testing.T) {
	r := NewDefault()
	r.Register(grammar.APlusB(10))

	g, err := r.Get("a_plus_b")
	require.NoError(t, err)
	assert.Error(t, g.ValidateBytes([]byte("11 2\n")))
	assert.Len(t, r.Names(), 2)
}

func TestLoadDir(t *testing.T) {
	r := NewDefault()

	n, err := r.LoadDir("testdata")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"a_plus_b", "matrix", "sum"}, r.Names())

	g, err := r.Get("matrix")
	require.NoError(t, err)
	assert.NoError(t, g.ValidateBytes([]byte("1 2\n3 4\n")))
}

func TestLoadDir_Errors(t *testing.T) {
	r := New()

	_, err := r.LoadDir("testdata/does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grammar directory")

	_, err = r.LoadDir("testdata/invalid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
	assert.Contains(t, err.Error(), "min 10 is greater than max 1")
}
