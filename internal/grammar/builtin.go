package grammar

const (
	DefaultV int64 = 1_000_000_000
	DefaultN int64 = 5_000_000
)

// APlusB accepts "a b\n" with 1 <= a, b <= v.
func APlusB(v int64) *Grammar {
	g := New("a_plus_b",
		Int("a", 1, v),
		Space(),
		Int("b", 1, v),
		Eoln(),
		EOF(),
	)
	g.Description = "two integers separated by a space"
	return g
}

// Sum accepts n on its own line followed by n space separated values in [0, v].
func Sum(n, v int64) *Grammar {
	g := New("sum",
		Int("n", 1, n),
		Eoln(),
		RepeatRef("n", Space(), Int("a_i", 0, v)),
		Eoln(),
		EOF(),
	)
	g.Description = "a count followed by that many integers on one line"
	return g
}
