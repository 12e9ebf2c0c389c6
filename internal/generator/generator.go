// Package generator writes random instances of a grammar.
//
// Generation is deterministic: the random source is seeded from the invocation
// arguments, so the same grammar and arguments always yield the same bytes.
package generator

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/DjordjeVuckovic/cptool/internal/grammar"
)

// Bound narrows the range drawn for a named integer.
type Bound struct {
	Low  int64
	High int64
}

type Generator struct {
	g      *grammar.Grammar
	rng    *rand.Rand
	bounds map[string]Bound
}

type Option func(*Generator)

// WithBound narrows the named integer to [low, high] intersected with its declared range.
func WithBound(name string, low, high int64) Option {
	return func(gen *Generator) {
		gen.bounds[name] = Bound{Low: low, High: high}
	}
}

// Seed hashes the arguments the same way for every run: each argument followed by a space.
func Seed(args []string) uint64 {
	h := fnv.New64a()
	for _, a := range args {
		_, _ = h.Write([]byte(a))
		_, _ = h.Write([]byte{' '})
	}
	return h.Sum64()
}

// New returns a generator for g seeded from args.
func New(g *grammar.Grammar, args []string, opts ...Option) *Generator {
	seed := Seed(args)
	gen := &Generator{
		g:      g,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		bounds: make(map[string]Bound),
	}
	for _, opt := range opts {
		opt(gen)
	}
	return gen
}

// Generate writes one instance to w. A bound naming no integer of the
// grammar is an error, so a mistyped name cannot silently widen the output.
func (gen *Generator) Generate(w io.Writer) error {
	if err := gen.checkBounds(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	scope := grammar.NewScope()
	for _, ch := range gen.g.Checks {
		if err := gen.emit(bw, ch, scope); err != nil {
			return fmt.Errorf("generate %q: %w", gen.g.Name, err)
		}
	}
	return bw.Flush()
}

func (gen *Generator) emit(w *bufio.Writer, ch grammar.Check, scope *grammar.Scope) error {
	switch c := ch.(type) {
	case grammar.IntRule:
		low, high, err := gen.rangeFor(c)
		if err != nil {
			return err
		}
		v := gen.draw(low, high)
		if c.Name != "" {
			scope.Set(c.Name, v)
		}
		_, err = w.WriteString(strconv.FormatInt(v, 10))
		return err
	case grammar.LiteralRule:
		return w.WriteByte(c.Byte)
	case grammar.EOFRule:
		return nil
	case grammar.SeqRule:
		for _, inner := range c {
			if err := gen.emit(w, inner, scope); err != nil {
				return err
			}
		}
		return nil
	case grammar.RepeatRule:
		n := c.Count
		if c.CountRef != "" {
			v, ok := scope.Lookup(c.CountRef)
			if !ok {
				return fmt.Errorf("repeat count %q was not generated before use", c.CountRef)
			}
			n = v
		}
		for i := int64(0); i < n; i++ {
			if i > 0 && c.Separator != nil {
				if err := gen.emit(w, c.Separator, scope); err != nil {
					return err
				}
			}
			if err := gen.emit(w, c.Body, scope); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("cannot generate input for check %T", ch)
}

func (gen *Generator) checkBounds() error {
	if len(gen.bounds) == 0 {
		return nil
	}
	names := make(map[string]bool)
	for _, ch := range gen.g.Checks {
		collectInts(ch, names)
	}
	unknown := make([]string, 0)
	for name := range gen.bounds {
		if !names[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return fmt.Errorf("bound %q does not match any integer in grammar %q", unknown[0], gen.g.Name)
}

func collectInts(ch grammar.Check, names map[string]bool) {
	switch c := ch.(type) {
	case grammar.IntRule:
		if c.Name != "" {
			names[c.Name] = true
		}
	case grammar.SeqRule:
		for _, inner := range c {
			collectInts(inner, names)
		}
	case grammar.RepeatRule:
		if c.Separator != nil {
			collectInts(c.Separator, names)
		}
		collectInts(c.Body, names)
	}
}

func (gen *Generator) rangeFor(r grammar.IntRule) (int64, int64, error) {
	low, high := r.Low, r.High
	if b, ok := gen.bounds[r.Name]; ok && r.Name != "" {
		low, high = max(low, b.Low), min(high, b.High)
	}
	if low > high {
		return 0, 0, fmt.Errorf("empty range for %s: [%d, %d]", r, low, high)
	}
	return low, high, nil
}

// draw returns a uniform value in [low, high]. Two's complement wrap keeps
// the arithmetic exact across the whole int64 range.
func (gen *Generator) draw(low, high int64) int64 {
	span := uint64(high) - uint64(low)
	if span == math.MaxUint64 {
		return int64(gen.rng.Uint64())
	}
	return int64(uint64(low) + gen.rng.Uint64N(span+1))
}
