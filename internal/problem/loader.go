package problem

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"gopkg.in/yaml.v3"
)

var namePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

func LoadFromFile(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read problem file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func Parse(data []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, apperr.NewValidationWrap("parse problem YAML", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate reports the first structural problem as an *apperr.ValidationError.
func (p *Problem) Validate() error {
	if p.Kind != Kind {
		return apperr.NewValidationf("kind must be %q, got %q", Kind, p.Kind)
	}
	if p.Version != Version {
		return apperr.NewValidationf("version must be %q, got %q", Version, p.Version)
	}
	if !namePattern.MatchString(p.Metadata.Name) {
		return apperr.NewValidationf("metadata.name %q must match %s", p.Metadata.Name, namePattern)
	}
	if p.Grammar == "" {
		return apperr.NewValidation("grammar is required")
	}
	if len(p.Bundles) == 0 {
		return apperr.NewValidation("at least one bundle is required")
	}
	if len(p.Tasks) == 0 {
		return apperr.NewValidation("at least one task is required")
	}

	for _, name := range p.BundleNames() {
		if !namePattern.MatchString(name) {
			return apperr.NewValidationf("bundle name %q must match %s", name, namePattern)
		}
		b := p.Bundles[name]
		if len(b.Cases) == 0 {
			return apperr.NewValidationf("bundles.%s: at least one case is required", name)
		}
		for i, c := range b.Cases {
			for bound, r := range c.Bounds {
				if r.Min > r.Max {
					return apperr.NewValidationf("bundles.%s.cases[%d]: bound %q has min %d greater than max %d",
						name, i, bound, r.Min, r.Max)
				}
			}
		}
	}

	for _, name := range p.TaskNames() {
		t := p.Tasks[name]
		at := "tasks." + name
		if t.Type != ScoringSum && t.Type != ScoringMin {
			return apperr.NewValidationf("%s: type must be %q or %q, got %q", at, ScoringSum, ScoringMin, t.Type)
		}
		if t.Score < 0 {
			return apperr.NewValidationf("%s: score must not be negative, got %g", at, t.Score)
		}
		if len(t.Bundles) == 0 {
			return apperr.NewValidationf("%s: at least one bundle is required", at)
		}
		for _, b := range t.Bundles {
			if _, ok := p.Bundles[b]; !ok {
				return apperr.NewValidationf("%s: bundle %q not found", at, b)
			}
		}
		for _, dep := range t.Dependencies {
			if dep == name {
				return apperr.NewValidationf("%s: task depends on itself", at)
			}
			if _, ok := p.Tasks[dep]; !ok {
				return apperr.NewValidationf("%s: dependency %q not found", at, dep)
			}
		}
	}
	return p.checkCycles()
}

// checkCycles rejects dependency loops between tasks.
func (p *Problem) checkCycles() error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(p.Tasks))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return apperr.NewValidationf("task dependency cycle: %v", append(slices.Clip(path), name))
		}
		state[name] = visiting
		for _, dep := range p.Tasks[name].Dependencies {
			if err := visit(dep, append(slices.Clip(path), name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, name := range p.TaskNames() {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

// BundleNames returns the bundle names in sorted order.
func (p *Problem) BundleNames() []string {
	names := make([]string, 0, len(p.Bundles))
	for name := range p.Bundles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// TaskNames returns the task names in sorted order.
func (p *Problem) TaskNames() []string {
	names := make([]string, 0, len(p.Tasks))
	for name := range p.Tasks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// UnusedBundles returns the bundles no task refers to, sorted.
func (p *Problem) UnusedBundles() []string {
	used := make(map[string]bool)
	for _, t := range p.Tasks {
		for _, b := range t.Bundles {
			used[b] = true
		}
	}
	var unused []string
	for _, name := range p.BundleNames() {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	return unused
}
