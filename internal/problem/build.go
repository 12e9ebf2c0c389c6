package problem

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/cptool/internal/generator"
	"github.com/DjordjeVuckovic/cptool/internal/grammar"
	"github.com/DjordjeVuckovic/cptool/internal/validation"
	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/DjordjeVuckovic/cptool/pkg/utils"
)

// Builder writes and checks the inputs of a problem.
type Builder struct {
	grammars validation.GrammarSource
	svc      *validation.Service
}

func NewBuilder(grammars validation.GrammarSource, svc *validation.Service) *Builder {
	return &Builder{grammars: grammars, svc: svc}
}

// CaseResult is one generated input and its verdict.
type CaseResult struct {
	Bundle  string           `json:"bundle"`
	Index   int              `json:"index"`
	Args    []string         `json:"args"`
	Path    string           `json:"path"`
	Verdict *verdict.Verdict `json:"verdict"`
}

// TaskResult is the scoring of one task. CaseScore is what a passing case
// earns under sum scoring, and the whole score under min scoring.
type TaskResult struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Score        float64  `json:"score"`
	Bundles      []string `json:"bundles"`
	Dependencies []string `json:"dependencies,omitempty"`
	Cases        int      `json:"cases"`
	CaseScore    float64  `json:"caseScore"`
}

type Result struct {
	Problem       string        `json:"problem"`
	Grammar       string        `json:"grammar"`
	OutputDir     string        `json:"outputDir"`
	Cases         []CaseResult  `json:"cases"`
	Tasks         []TaskResult  `json:"tasks"`
	TotalScore    float64       `json:"totalScore"`
	UnusedBundles []string      `json:"unusedBundles,omitempty"`
	Elapsed       time.Duration `json:"elapsedNs"`
}

// Rejected returns the first case its own grammar rejected, or nil.
func (r *Result) Rejected() *CaseResult {
	for i := range r.Cases {
		if !r.Cases[i].Verdict.Accepted {
			return &r.Cases[i]
		}
	}
	return nil
}

// Build generates every case of p into outDir as <bundle>-<index>.in and
// validates them. A generated case the grammar rejects makes the returned
// error wrap its *apperr.FormatViolation; the result is still returned.
func (b *Builder) Build(ctx context.Context, p *Problem, outDir string) (*Result, error) {
	start := time.Now()

	g, err := b.grammars.Get(p.Grammar)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, name := range p.UnusedBundles() {
		slog.Warn("unused test bundle", "problem", p.Metadata.Name, "bundle", name)
	}

	var cases []CaseResult
	var paths []string
	for _, name := range p.BundleNames() {
		for i, c := range p.Bundles[name].Cases {
			path := filepath.Join(outDir, fmt.Sprintf("%s-%d.in", name, i))
			if err := writeCase(g, c, path); err != nil {
				return nil, fmt.Errorf("bundle %s case %d: %w", name, i, err)
			}
			cases = append(cases, CaseResult{Bundle: name, Index: i, Args: c.Args, Path: path})
			paths = append(paths, path)
		}
	}
	slog.Debug("cases generated", "problem", p.Metadata.Name, "count", len(paths), "dir", outDir)

	verdicts, err := b.svc.ValidateAll(ctx, g.Name, paths)
	if err != nil {
		return nil, err
	}
	for i, v := range verdicts {
		cases[i].Verdict = v
	}

	res := &Result{
		Problem:       p.Metadata.Name,
		Grammar:       g.Name,
		OutputDir:     outDir,
		Cases:         cases,
		Tasks:         scoreTasks(p),
		UnusedBundles: p.UnusedBundles(),
	}
	for _, t := range res.Tasks {
		res.TotalScore += t.Score
	}
	res.TotalScore = utils.RoundDecimal(res.TotalScore, 2)
	res.Elapsed = time.Since(start)

	if bad := res.Rejected(); bad != nil {
		return res, fmt.Errorf("generated case %s: %w", bad.Path, bad.Verdict.Err())
	}
	return res, nil
}

func writeCase(g *grammar.Grammar, c Case, path string) (err error) {
	opts := make([]generator.Option, 0, len(c.Bounds))
	for name, r := range c.Bounds {
		opts = append(opts, generator.WithBound(name, r.Min, r.Max))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create input file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close input file: %w", cerr)
		}
	}()
	return generator.New(g, c.Args, opts...).Generate(f)
}

func scoreTasks(p *Problem) []TaskResult {
	tasks := make([]TaskResult, 0, len(p.Tasks))
	for _, name := range p.TaskNames() {
		t := p.Tasks[name]
		n := 0
		for _, b := range t.Bundles {
			n += len(p.Bundles[b].Cases)
		}
		caseScore := t.Score
		if t.Type == ScoringSum && n > 0 {
			caseScore = utils.RoundDecimal(t.Score/float64(n), 2)
		}
		tasks = append(tasks, TaskResult{
			Name:         name,
			Type:         t.Type,
			Score:        t.Score,
			Bundles:      t.Bundles,
			Dependencies: t.Dependencies,
			Cases:        n,
			CaseScore:    caseScore,
		})
	}
	return tasks
}
