package grammar

import (
	"fmt"
	"math"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/cursor"
)

// IntToken is an integer read from the input.
// Start and End delimit the consumed bytes, End exclusive.
type IntToken struct {
	Value int64
	Start int
	End   int
}

// IntRule reads one decimal integer and requires Low <= value <= High.
// A leading '-' is only accepted when Low is negative.
type IntRule struct {
	Name              string
	Low               int64
	High              int64
	AllowLeadingZeros bool
}

// Int returns a rule for a named integer in [low, high].
// The value is stored in the run Scope under name when name is not empty.
func Int(name string, low, high int64) IntRule {
	return IntRule{Name: name, Low: low, High: high}
}

// ReadInteger consumes one integer in [low, high] at the cursor.
func ReadInteger(c *cursor.Cursor, low, high int64) (IntToken, error) {
	return IntRule{Low: low, High: high}.Read(c)
}

func (r IntRule) Check(c *cursor.Cursor, s *Scope) error {
	tok, err := r.Read(c)
	if err != nil {
		return err
	}
	if r.Name != "" {
		s.Set(r.Name, tok.Value)
	}
	return nil
}

// Read consumes the maximal run of digits at the cursor.
// The magnitude is accumulated in uint64 and compared against the bound before
// every step, so the run is rejected as soon as it is certain to be out of range.
func (r IntRule) Read(c *cursor.Cursor) (IntToken, error) {
	start := c.Offset()

	b, ok := c.Peek()
	negative := false
	if ok && b == '-' && r.Low < 0 {
		negative = true
		c.Advance()
		b, ok = c.Peek()
	}
	if !ok {
		return IntToken{}, r.violation(c.Offset(), "expected digit, got end of input")
	}
	if !isDigit(b) {
		return IntToken{}, r.violation(c.Offset(), fmt.Sprintf("expected digit, got %s", describe(b)))
	}
	if !negative && r.High < 0 {
		return IntToken{}, r.violation(start, fmt.Sprintf("value exceeds upper bound %d", r.High))
	}

	limit := r.magnitudeLimit(negative)
	first := b
	digits := 0
	var mag uint64

	for ok && isDigit(b) {
		if digits == 1 && first == '0' && !r.AllowLeadingZeros {
			return IntToken{}, r.violation(start, "leading zeros are not allowed")
		}
		d := uint64(b - '0')
		if mag > limit/10 || (mag == limit/10 && d > limit%10) {
			if negative {
				return IntToken{}, r.violation(start, fmt.Sprintf("value below lower bound %d", r.Low))
			}
			return IntToken{}, r.violation(start, fmt.Sprintf("value exceeds upper bound %d", r.High))
		}
		mag = mag*10 + d
		digits++
		c.Advance()
		b, ok = c.Peek()
	}

	if negative && mag == 0 {
		return IntToken{}, r.violation(start, "negative zero is not allowed")
	}

	value := signed(mag, negative)
	if value < r.Low {
		return IntToken{}, r.violation(start, fmt.Sprintf("value %d below lower bound %d", value, r.Low))
	}
	if value > r.High {
		return IntToken{}, r.violation(start, fmt.Sprintf("value %d exceeds upper bound %d", value, r.High))
	}

	return IntToken{Value: value, Start: start, End: c.Offset()}, nil
}

// magnitudeLimit is the largest magnitude that can still be in range.
func (r IntRule) magnitudeLimit(negative bool) uint64 {
	if negative {
		// -(Low+1) never overflows, including Low == math.MinInt64.
		return uint64(-(r.Low + 1)) + 1
	}
	return uint64(r.High)
}

func (r IntRule) violation(offset int, reason string) error {
	name := r.Name
	if name == "" {
		name = "int"
	}
	return apperr.NewFormatViolation(offset, name, reason)
}

func (r IntRule) String() string {
	name := r.Name
	if name == "" {
		name = "int"
	}
	return fmt.Sprintf("%s in [%d, %d]", name, r.Low, r.High)
}

func signed(mag uint64, negative bool) int64 {
	if !negative {
		return int64(mag)
	}
	if mag == uint64(math.MaxInt64)+1 {
		return math.MinInt64
	}
	return -int64(mag)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
