package definition

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"gopkg.in/yaml.v3"
)

var namePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

func LoadFromFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func Load(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, apperr.NewValidationWrap("parse grammar YAML", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate reports the first structural problem in the definition as an
// *apperr.ValidationError.
func (d *Definition) Validate() error {
	if d.Kind != Kind {
		return apperr.NewValidationf("kind must be %q, got %q", Kind, d.Kind)
	}
	if d.Version != Version {
		return apperr.NewValidationf("version must be %q, got %q", Version, d.Version)
	}
	if d.Metadata.Name == "" {
		return apperr.NewValidation("metadata.name is required")
	}
	if !namePattern.MatchString(d.Metadata.Name) {
		return apperr.NewValidationf("metadata.name %q must match %s", d.Metadata.Name, namePattern)
	}
	if len(d.Rules) == 0 {
		return apperr.NewValidation("at least one rule is required")
	}

	declared := make(map[string]intRange)
	if _, err := validateRules(d.Rules, "rules", declared, false); err != nil {
		return err
	}

	if d.Rules[len(d.Rules)-1].Type != RuleEOF {
		slog.Warn("grammar does not end with an eof rule, trailing input will be accepted",
			"grammar", d.Metadata.Name)
	}
	return nil
}

// intRange is the declared range of a named int rule.
type intRange struct {
	min, max int64
}

// validateRules checks rules in order. afterInt reports whether the input
// consumed so far may end in an integer; an int reads the maximal digit run,
// so nothing that starts with a digit may follow one directly.
func validateRules(rules []Rule, path string, declared map[string]intRange, afterInt bool) (bool, error) {
	for i, r := range rules {
		var err error
		afterInt, err = validateRule(r, fmt.Sprintf("%s[%d]", path, i), declared, afterInt)
		if err != nil {
			return false, err
		}
	}
	return afterInt, nil
}

func validateRule(r Rule, at string, declared map[string]intRange, afterInt bool) (bool, error) {
	switch r.Type {
	case RuleInt:
		if r.Min == nil || r.Max == nil {
			return false, apperr.NewValidationf("%s: int rule requires min and max", at)
		}
		if *r.Min > *r.Max {
			return false, apperr.NewValidationf("%s: min %d is greater than max %d", at, *r.Min, *r.Max)
		}
		if afterInt {
			return false, apperr.NewValidationf("%s: int directly follows another int, a separator is required", at)
		}
		if r.Name != "" {
			declared[r.Name] = intRange{min: *r.Min, max: *r.Max}
		}
		return true, nil
	case RuleLiteral:
		if len(r.Value) != 1 {
			return false, apperr.NewValidationf("%s: literal value must be exactly one byte, got %q", at, r.Value)
		}
		if afterInt && isDigit(r.Value[0]) {
			return false, apperr.NewValidationf("%s: digit literal %q directly follows an int", at, r.Value)
		}
		return false, nil
	case RuleSpace, RuleEoln, RuleEOF:
		return false, nil
	case RuleRepeat:
		return validateRepeat(r, at, declared, afterInt)
	case "":
		return false, apperr.NewValidationf("%s: type is required", at)
	default:
		return false, apperr.NewValidationf("%s: unknown rule type %q", at, r.Type)
	}
}

func validateRepeat(r Rule, at string, declared map[string]intRange, afterInt bool) (bool, error) {
	if (r.Count == nil) == (r.CountRef == "") {
		return false, apperr.NewValidationf("%s: repeat requires exactly one of count or countRef", at)
	}

	var minCount, maxCount int64
	if r.Count != nil {
		if *r.Count < 0 {
			return false, apperr.NewValidationf("%s: repeat count must not be negative, got %d", at, *r.Count)
		}
		minCount, maxCount = *r.Count, *r.Count
	} else {
		ref, ok := declared[r.CountRef]
		if !ok {
			return false, apperr.NewValidationf("%s: countRef %q does not name an earlier int rule", at, r.CountRef)
		}
		if ref.min < 0 {
			return false, apperr.NewValidationf("%s: countRef %q may be negative, its min is %d", at, r.CountRef, ref.min)
		}
		minCount, maxCount = ref.min, ref.max
	}

	sep, err := separatorByte(r.Separator)
	if err != nil {
		return false, apperr.NewValidationWrap(at, err)
	}
	if len(r.Rules) == 0 {
		return false, apperr.NewValidationf("%s: repeat requires at least one nested rule", at)
	}

	body := at + ".rules"
	entry := afterInt && maxCount > 0
	end, err := validateRules(r.Rules, body, declared, entry)
	if err != nil {
		return false, err
	}
	if maxCount >= 2 {
		next := end
		if sep != 0 {
			if end && isDigit(sep) {
				return false, apperr.NewValidationf("%s: digit separator %q directly follows an int", at, sep)
			}
			next = false
		}
		if end, err = validateRules(r.Rules, body, declared, next); err != nil {
			return false, err
		}
	}

	switch {
	case maxCount == 0:
		return afterInt, nil
	case minCount == 0:
		return end || afterInt, nil
	default:
		return end, nil
	}
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// separatorByte maps a repeat separator to its byte, 0 meaning none.
func separatorByte(sep string) (byte, error) {
	switch sep {
	case "":
		return 0, nil
	case RuleSpace:
		return ' ', nil
	case RuleEoln:
		return '\n', nil
	}
	if len(sep) == 1 {
		return sep[0], nil
	}
	return 0, fmt.Errorf("separator must be %q, %q or a single byte, got %q", RuleSpace, RuleEoln, sep)
}
