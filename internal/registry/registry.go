package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/definition"
	"github.com/DjordjeVuckovic/cptool/internal/grammar"
	"github.com/agnivade/levenshtein"
	"github.com/emirpasic/gods/maps/treemap"
)

// maxSuggestDistance bounds how different a name may be and still be suggested.
const maxSuggestDistance = 3

// Registry holds grammars by name, ordered by name.
type Registry struct {
	mu       sync.RWMutex
	grammars *treemap.Map
}

func New() *Registry {
	return &Registry{grammars: treemap.NewWithStringComparator()}
}

// NewDefault returns a registry with the builtin grammars using the default bounds.
func NewDefault() *Registry {
	r := New()
	r.Register(grammar.APlusB(grammar.DefaultV))
	r.Register(grammar.Sum(grammar.DefaultN, grammar.DefaultV))
	return r
}

// Register adds g, replacing any grammar with the same name.
func (r *Registry) Register(g *grammar.Grammar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.grammars.Get(g.Name); ok {
		slog.Debug("replacing grammar", "name", g.Name)
	}
	r.grammars.Put(g.Name, g)
}

// LoadDir registers every *.yaml and *.yml definition in dir and returns how many were loaded.
func (r *Registry) LoadDir(dir string) (int, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return 0, fmt.Errorf("list grammar files: %w", err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		if _, err := os.Stat(dir); err != nil {
			return 0, fmt.Errorf("grammar directory: %w", err)
		}
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := r.LoadFile(p); err != nil {
			return 0, err
		}
	}
	slog.Debug("grammars loaded", "dir", dir, "count", len(paths))
	return len(paths), nil
}

// LoadFile registers the definition stored at path.
func (r *Registry) LoadFile(path string) error {
	d, err := definition.LoadFromFile(path)
	if err != nil {
		return err
	}
	g, err := d.Build()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r.Register(g)
	return nil
}

// Get returns the named grammar or an *apperr.NotFoundError with close matches.
func (r *Registry) Get(name string) (*grammar.Grammar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if g, ok := r.grammars.Get(name); ok {
		return g.(*grammar.Grammar), nil
	}
	return nil, &apperr.NotFoundError{Kind: "grammar", Name: name, Suggestions: r.suggest(name)}
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, r.grammars.Size())
	it := r.grammars.Iterator()
	for it.Next() {
		names = append(names, it.Key().(string))
	}
	return names
}

func (r *Registry) suggest(name string) []string {
	type candidate struct {
		name     string
		distance int
	}
	var candidates []candidate
	it := r.grammars.Iterator()
	for it.Next() {
		known := it.Key().(string)
		d := levenshtein.ComputeDistance(name, known)
		if d <= maxSuggestDistance {
			candidates = append(candidates, candidate{name: known, distance: d})
		}
	}
	// keys arrive sorted, so equal distances keep name order
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.name)
	}
	return out
}
