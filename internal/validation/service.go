package validation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/DjordjeVuckovic/cptool/internal/apperr"
	"github.com/DjordjeVuckovic/cptool/internal/cursor"
	"github.com/DjordjeVuckovic/cptool/internal/grammar"
	"github.com/DjordjeVuckovic/cptool/internal/metrics"
	"github.com/DjordjeVuckovic/cptool/internal/storage"
	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// GrammarSource resolves grammars by name. *registry.Registry satisfies it.
type GrammarSource interface {
	Get(name string) (*grammar.Grammar, error)
}

// Service runs grammars over input streams and records the verdicts.
type Service struct {
	grammars    GrammarSource
	storer      storage.Storer
	concurrency int
	maxBytes    int64
}

type Option func(*Service)

// WithStorer persists every verdict to s.
func WithStorer(s storage.Storer) Option {
	return func(svc *Service) {
		svc.storer = s
	}
}

// WithConcurrency bounds how many files ValidateAll checks at once.
func WithConcurrency(n int) Option {
	return func(svc *Service) {
		if n > 0 {
			svc.concurrency = n
		}
	}
}

// WithMaxInputBytes rejects inputs larger than n bytes before they are checked. Zero means no limit.
func WithMaxInputBytes(n int64) Option {
	return func(svc *Service) {
		svc.maxBytes = n
	}
}

func NewService(grammars GrammarSource, opts ...Option) *Service {
	s := &Service{
		grammars:    grammars,
		storer:      storage.Nop{},
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate reads r once and checks it against the named grammar.
// A rejected input is a verdict with Accepted false; the error is reserved for
// an unknown grammar, a failed read or an oversized input.
func (s *Service) Validate(ctx context.Context, grammarName, source string, r io.Reader) (*verdict.Verdict, error) {
	v, err := s.check(ctx, grammarName, source, r)
	if err != nil {
		return nil, err
	}

	if err := s.storer.Save(ctx, v); err != nil {
		metrics.ValidationErrors.WithLabelValues("store").Inc()
		slog.Error("failed to store verdict", "id", v.ID, "grammar", grammarName, "error", err)
	}
	return v, nil
}

// ValidateAll checks every file concurrently and stores the verdicts in one batch.
// Verdicts are returned in the order of paths.
func (s *Service) ValidateAll(ctx context.Context, grammarName string, paths []string) ([]*verdict.Verdict, error) {
	if _, err := s.grammars.Get(grammarName); err != nil {
		metrics.ValidationErrors.WithLabelValues("unknown_grammar").Inc()
		return nil, err
	}

	verdicts := make([]*verdict.Verdict, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				metrics.ValidationErrors.WithLabelValues("read").Inc()
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()

			v, err := s.check(gctx, grammarName, path, f)
			if err != nil {
				return err
			}
			verdicts[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.storer.SaveBulk(ctx, verdicts); err != nil {
		metrics.ValidationErrors.WithLabelValues("store").Inc()
		slog.Error("failed to store verdicts", "grammar", grammarName, "count", len(verdicts), "error", err)
	}
	return verdicts, nil
}

func (s *Service) check(ctx context.Context, grammarName, source string, r io.Reader) (*verdict.Verdict, error) {
	g, err := s.grammars.Get(grammarName)
	if err != nil {
		metrics.ValidationErrors.WithLabelValues("unknown_grammar").Inc()
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := s.load(r)
	if err != nil {
		metrics.ValidationErrors.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("%s: %w", displayName(source), err)
	}

	start := time.Now()
	err = g.Validate(c)
	elapsed := time.Since(start)

	if err != nil && !apperr.IsFormatViolation(err) {
		return nil, fmt.Errorf("grammar %s: %w", g.Name, err)
	}

	v := verdict.New(g.Name, source, c.Len(), err)
	v.Duration = elapsed
	metrics.ObserveRun(g.Name, v.Status(), v.Size, elapsed)

	if v.Accepted {
		slog.Debug("input accepted", "grammar", g.Name, "source", displayName(source), "bytes", v.Size, "duration", elapsed)
	} else {
		slog.Debug("input rejected", "grammar", g.Name, "source", displayName(source), "offset", v.Offset, "rule", v.Rule, "reason", v.Reason)
	}
	return v, nil
}

func (s *Service) load(r io.Reader) (*cursor.Cursor, error) {
	if s.maxBytes <= 0 {
		return cursor.Load(r)
	}

	c, err := cursor.Load(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(c.Len()) > s.maxBytes {
		return nil, apperr.NewValidationf("input exceeds %d bytes", s.maxBytes)
	}
	return c, nil
}

func displayName(source string) string {
	if source == "" {
		return "<stdin>"
	}
	return source
}
