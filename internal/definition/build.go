package definition

import (
	"fmt"

	"github.com/DjordjeVuckovic/cptool/internal/grammar"
)

// Build converts a validated definition into a runnable grammar.
func (d *Definition) Build() (*grammar.Grammar, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	checks, err := buildRules(d.Rules)
	if err != nil {
		return nil, err
	}
	g := grammar.New(d.Metadata.Name, checks...)
	g.Description = d.Metadata.Description
	return g, nil
}

func buildRules(rules []Rule) ([]grammar.Check, error) {
	checks := make([]grammar.Check, 0, len(rules))
	for _, r := range rules {
		ch, err := buildRule(r)
		if err != nil {
			return nil, err
		}
		checks = append(checks, ch)
	}
	return checks, nil
}

func buildRule(r Rule) (grammar.Check, error) {
	switch r.Type {
	case RuleInt:
		return grammar.IntRule{Name: r.Name, Low: *r.Min, High: *r.Max, AllowLeadingZeros: r.LeadingZeros}, nil
	case RuleLiteral:
		return grammar.Literal(r.Value[0]), nil
	case RuleSpace:
		return grammar.Space(), nil
	case RuleEoln:
		return grammar.Eoln(), nil
	case RuleEOF:
		return grammar.EOF(), nil
	case RuleRepeat:
		body, err := buildRules(r.Rules)
		if err != nil {
			return nil, err
		}
		rep := grammar.RepeatRule{CountRef: r.CountRef, Body: grammar.Seq(body...)}
		if len(body) == 1 {
			rep.Body = body[0]
		}
		if r.Count != nil {
			rep.Count = *r.Count
		}
		sep, err := separatorByte(r.Separator)
		if err != nil {
			return nil, err
		}
		if sep != 0 {
			rep.Separator = grammar.Literal(sep)
		}
		return rep, nil
	}
	return nil, fmt.Errorf("unknown rule type %q", r.Type)
}

// FromGrammar describes g as a definition. Grammars built from CheckFunc
// values cannot be described and return an error.
func FromGrammar(g *grammar.Grammar) (*Definition, error) {
	rules, err := describeChecks(g.Checks)
	if err != nil {
		return nil, fmt.Errorf("describe grammar %q: %w", g.Name, err)
	}
	return &Definition{
		Kind:     Kind,
		Version:  Version,
		Metadata: Metadata{Name: g.Name, Description: g.Description},
		Rules:    rules,
	}, nil
}

func describeChecks(checks []grammar.Check) ([]Rule, error) {
	rules := make([]Rule, 0, len(checks))
	for _, ch := range checks {
		described, err := describeCheck(ch)
		if err != nil {
			return nil, err
		}
		rules = append(rules, described...)
	}
	return rules, nil
}

func describeCheck(ch grammar.Check) ([]Rule, error) {
	switch c := ch.(type) {
	case grammar.IntRule:
		low, high := c.Low, c.High
		return []Rule{{Type: RuleInt, Name: c.Name, Min: &low, Max: &high, LeadingZeros: c.AllowLeadingZeros}}, nil
	case grammar.LiteralRule:
		switch c.Byte {
		case ' ':
			return []Rule{{Type: RuleSpace}}, nil
		case '\n':
			return []Rule{{Type: RuleEoln}}, nil
		}
		return []Rule{{Type: RuleLiteral, Value: string([]byte{c.Byte})}}, nil
	case grammar.EOFRule:
		return []Rule{{Type: RuleEOF}}, nil
	case grammar.SeqRule:
		return describeChecks(c)
	case grammar.RepeatRule:
		body, err := describeCheck(c.Body)
		if err != nil {
			return nil, err
		}
		r := Rule{Type: RuleRepeat, CountRef: c.CountRef, Rules: body}
		if c.CountRef == "" {
			n := c.Count
			r.Count = &n
		}
		if c.Separator != nil {
			sep, ok := c.Separator.(grammar.LiteralRule)
			if !ok {
				return nil, fmt.Errorf("repeat separator %T is not a literal", c.Separator)
			}
			r.Separator = separatorName(sep.Byte)
		}
		return []Rule{r}, nil
	}
	return nil, fmt.Errorf("check %T has no definition form", ch)
}

func separatorName(b byte) string {
	switch b {
	case ' ':
		return RuleSpace
	case '\n':
		return RuleEoln
	}
	return string([]byte{b})
}
