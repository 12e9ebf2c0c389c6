package generator

import (
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/cptool/internal/definition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countRefs returns the names used as repeat counts so the round trip can
// keep instances small.
func countRefs(rules []definition.Rule, names map[string]bool) {
	for _, r := range rules {
		if r.CountRef != "" {
			names[r.CountRef] = true
		}
		countRefs(r.Rules, names)
	}
}

func TestGenerate_DefinitionFilesRoundTrip(t *testing.T) {
	var paths []string
	for _, pattern := range []string{"../definition/testdata/*.yaml", "../../grammars/*.yaml"} {
		matches, err := filepath.Glob(pattern)
		require.NoError(t, err)
		paths = append(paths, matches...)
	}
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			def, err := definition.LoadFromFile(path)
			require.NoError(t, err)
			g, err := def.Build()
			require.NoError(t, err)

			refs := make(map[string]bool)
			countRefs(def.Rules, refs)
			var opts []Option
			for name := range refs {
				opts = append(opts, WithBound(name, math.MinInt64, 30))
			}

			for i := range 25 {
				out := generate(t, g, []string{"roundtrip", fmt.Sprint(i)}, opts...)
				assert.NoError(t, g.ValidateBytes(out), "%s generated %q", path, out)
			}
		})
	}
}
