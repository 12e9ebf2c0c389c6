package grammar

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/cursor"
)

// Check is one step of a grammar.
type Check interface {
	Check(c *cursor.Cursor, s *Scope) error
}

// CheckFunc adapts a function to Check.
type CheckFunc func(c *cursor.Cursor, s *Scope) error

func (f CheckFunc) Check(c *cursor.Cursor, s *Scope) error {
	return f(c, s)
}

// SeqRule runs its checks in order and stops at the first failure.
type SeqRule []Check

func Seq(checks ...Check) SeqRule {
	return SeqRule(checks)
}

func (q SeqRule) Check(c *cursor.Cursor, s *Scope) error {
	for _, ch := range q {
		if err := ch.Check(c, s); err != nil {
			return err
		}
	}
	return nil
}

func (q SeqRule) String() string {
	parts := make([]string, 0, len(q))
	for _, ch := range q {
		parts = append(parts, fmt.Sprint(ch))
	}
	return strings.Join(parts, ", ")
}

// RepeatRule runs Body a fixed number of times with Separator between iterations.
// The count is Count, or the value of the named integer CountRef when set.
type RepeatRule struct {
	Count     int64
	CountRef  string
	Separator Check
	Body      Check
}

// Repeat runs body n times separated by sep. sep may be nil.
func Repeat(n int64, sep, body Check) RepeatRule {
	return RepeatRule{Count: n, Separator: sep, Body: body}
}

// RepeatRef runs body as many times as the integer named ref that was read earlier.
func RepeatRef(ref string, sep, body Check) RepeatRule {
	return RepeatRule{CountRef: ref, Separator: sep, Body: body}
}

func (r RepeatRule) Check(c *cursor.Cursor, s *Scope) error {
	n, err := r.count(c, s)
	if err != nil {
		return err
	}
	for i := int64(0); i < n; i++ {
		if i > 0 && r.Separator != nil {
			if err := r.Separator.Check(c, s); err != nil {
				return err
			}
		}
		if err := r.Body.Check(c, s); err != nil {
			return err
		}
	}
	return nil
}

// count resolves the number of iterations. A referenced value comes from the
// input, so a negative one rejects the input rather than the grammar.
func (r RepeatRule) count(c *cursor.Cursor, s *Scope) (int64, error) {
	if r.CountRef == "" {
		return r.Count, nil
	}
	n, ok := s.Lookup(r.CountRef)
	if !ok {
		return 0, fmt.Errorf("repeat count %q was not read before use", r.CountRef)
	}
	if n < 0 {
		return 0, apperr.NewFormatViolation(c.Offset(), r.CountRef,
			fmt.Sprintf("repeat count %q is negative: %d", r.CountRef, n))
	}
	return n, nil
}

func (r RepeatRule) String() string {
	count := fmt.Sprint(r.Count)
	if r.CountRef != "" {
		count = r.CountRef
	}
	if r.Separator == nil {
		return fmt.Sprintf("%s x (%v)", count, r.Body)
	}
	return fmt.Sprintf("%s x (%v) separated by %v", count, r.Body, r.Separator)
}
