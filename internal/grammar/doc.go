// Package grammar checks that an input matches an exact text format.
//
// A Grammar is an ordered list of Checks run against a single cursor.Cursor.
// Each check either consumes the construct it describes and returns nil, or
// returns an *apperr.FormatViolation. The first violation ends the run; there
// is no rollback and no attempt to continue.
//
// The primitives are integers within inclusive bounds, single literal bytes
// (space, newline) and end of input. Seq and Repeat compose them, so a new
// problem format is assembled rather than hand-parsed:
//
//	g := grammar.New("sum",
//		grammar.Int("n", 1, 5_000_000),
//		grammar.Eoln(),
//		grammar.RepeatRef("n", grammar.Space(), grammar.Int("a_i", 0, 1_000_000_000)),
//		grammar.Eoln(),
//		grammar.EOF(),
//	)
//	err := g.ValidateBytes(input)
package grammar
