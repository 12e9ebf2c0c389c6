package storage

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/google/uuid"
)

// Storer persists verdicts produced by the validation service.
type Storer interface {
	Save(ctx context.Context, v *verdict.Verdict) error
	SaveBulk(ctx context.Context, vs []*verdict.Verdict) error
}

// Reader looks up a stored verdict by ID.
type Reader interface {
	Get(ctx context.Context, id uuid.UUID) (*verdict.Verdict, error)
}

type Type string

const (
	None  Type = "none"
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
	File  Type = "file"
)

var ErrNotFound = errors.New("verdict not found")

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// Nop discards every verdict. It backs STORAGE_TYPE=none.
type Nop struct{}

func (Nop) Save(context.Context, *verdict.Verdict) error { return nil }

func (Nop) SaveBulk(context.Context, []*verdict.Verdict) error { return nil }

func (Nop) Get(context.Context, uuid.UUID) (*verdict.Verdict, error) {
	return nil, ErrNotFound
}
