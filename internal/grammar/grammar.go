package grammar

import (
	"github.com/DjordjeVuckovic/cptool/internal/cursor"
)

// Grammar is a named, ordered list of checks.
type Grammar struct {
	Name        string
	Description string
	Checks      []Check
}

func New(name string, checks ...Check) *Grammar {
	return &Grammar{Name: name, Checks: checks}
}

// Validate runs every check against c in order.
// It returns nil when all checks pass, otherwise the first error, which is an
// *apperr.FormatViolation for malformed input.
func (g *Grammar) Validate(c *cursor.Cursor) error {
	return SeqRule(g.Checks).Check(c, NewScope())
}

func (g *Grammar) ValidateBytes(input []byte) error {
	return g.Validate(cursor.New(input))
}

func (g *Grammar) String() string {
	return g.Name + ": " + SeqRule(g.Checks).String()
}
