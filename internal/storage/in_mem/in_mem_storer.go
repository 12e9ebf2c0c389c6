package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/cptool/internal/storage"
	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/google/uuid"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]verdict.Verdict
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		storage: make(map[uuid.UUID]verdict.Verdict),
	}
}

func (s *InMemStorer) Save(_ context.Context, v *verdict.Verdict) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	s.storage[v.ID] = *v
	slog.Debug("verdict stored in memory", "id", v.ID, "grammar", v.Grammar)
	return nil
}

func (s *InMemStorer) SaveBulk(_ context.Context, vs []*verdict.Verdict) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	for _, v := range vs {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		s.storage[v.ID] = *v
	}
	slog.Debug("verdicts stored in memory", "count", len(vs))
	return nil
}

func (s *InMemStorer) Get(_ context.Context, id uuid.UUID) (*verdict.Verdict, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	v, ok := s.storage[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &v, nil
}

func (s *InMemStorer) Len() int {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	return len(s.storage)
}
