package pg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/cptool/internal/storage"
	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS verdicts (
    id          UUID PRIMARY KEY,
    grammar     TEXT        NOT NULL,
    source      TEXT        NOT NULL DEFAULT '',
    accepted    BOOLEAN     NOT NULL,
    byte_offset INTEGER     NOT NULL DEFAULT 0,
    rule        TEXT        NOT NULL DEFAULT '',
    reason      TEXT        NOT NULL DEFAULT '',
    size        BIGINT      NOT NULL,
    checked_at  TIMESTAMPTZ NOT NULL,
    duration_ns BIGINT      NOT NULL
);
CREATE INDEX IF NOT EXISTS verdicts_grammar_checked_at_idx ON verdicts (grammar, checked_at DESC);
`

var columns = []string{
	"id", "grammar", "source", "accepted", "byte_offset", "rule", "reason", "size", "checked_at", "duration_ns",
}

type Storer struct {
	db *pgxpool.Pool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	if pool == nil {
		return nil, errors.New("postgres storer requires a connection pool")
	}
	return &Storer{db: pool.conn}, nil
}

// EnsureSchema creates the verdicts table when it does not exist yet.
func (s *Storer) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create verdicts schema: %w", err)
	}
	slog.Debug("verdicts schema ready")
	return nil
}

func (s *Storer) Save(ctx context.Context, v *verdict.Verdict) error {
	prepare(v, time.Now().UTC())

	cmd := `
        INSERT INTO verdicts (id, grammar, source, accepted, byte_offset, rule, reason, size, checked_at, duration_ns)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := s.db.Exec(ctx, cmd, row(v)...)
	if err != nil {
		return fmt.Errorf("failed to insert verdict: %w", err)
	}
	return nil
}

func (s *Storer) SaveBulk(ctx context.Context, vs []*verdict.Verdict) error {
	if len(vs) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(vs))
	now := time.Now().UTC()
	for i, v := range vs {
		prepare(v, now)
		rows[i] = row(v)
	}

	_, err := s.db.CopyFrom(
		ctx,
		pgx.Identifier{"verdicts"},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to bulk insert verdicts: %w", err)
	}
	return nil
}

func (s *Storer) Get(ctx context.Context, id uuid.UUID) (*verdict.Verdict, error) {
	query := `
        SELECT id, grammar, source, accepted, byte_offset, rule, reason, size, checked_at, duration_ns
        FROM verdicts
        WHERE id = $1;
    `
	var (
		v          verdict.Verdict
		size       int64
		durationNs int64
	)
	err := s.db.QueryRow(ctx, query, id).Scan(
		&v.ID,
		&v.Grammar,
		&v.Source,
		&v.Accepted,
		&v.Offset,
		&v.Rule,
		&v.Reason,
		&size,
		&v.CheckedAt,
		&durationNs,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query verdict: %w", err)
	}

	v.Size = int(size)
	v.Duration = time.Duration(durationNs)
	return &v, nil
}

func prepare(v *verdict.Verdict, now time.Time) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CheckedAt.IsZero() {
		v.CheckedAt = now
	}
}

func row(v *verdict.Verdict) []interface{} {
	return []interface{}{
		v.ID,
		v.Grammar,
		v.Source,
		v.Accepted,
		v.Offset,
		v.Rule,
		v.Reason,
		int64(v.Size),
		v.CheckedAt,
		v.Duration.Nanoseconds(),
	}
}
