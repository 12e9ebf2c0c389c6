package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/cptool/internal/storage"
	"github.com/DjordjeVuckovic/cptool/internal/storage/es"
	"github.com/DjordjeVuckovic/cptool/internal/storage/file"
	"github.com/DjordjeVuckovic/cptool/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/cptool/internal/storage/pg"
	"github.com/DjordjeVuckovic/cptool/pkg/server"
)

// Backend bundles everything a process needs from one storage type.
type Backend struct {
	Storer  storage.Storer
	Reader  storage.Reader
	Health  server.HealthChecker
	closeFn func()
}

func (b *Backend) Close() {
	if b.closeFn != nil {
		b.closeFn()
	}
}

// NewBackend connects to the configured storage and prepares its schema or index.
func NewBackend(ctx context.Context, cfg *StorageConfig) (*Backend, error) {
	switch cfg.Type {
	case storage.None, "":
		nop := storage.Nop{}
		return &Backend{Storer: nop, Reader: nop, Health: server.NewOkHealthChecker()}, nil

	case storage.InMem:
		s := in_mem.NewInMemStorer()
		return &Backend{Storer: s, Reader: s, Health: server.NewOkHealthChecker()}, nil

	case storage.File:
		s, err := file.NewJsonFileStorer(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		closeFn := func() {
			if err := s.Close(); err != nil {
				slog.Warn("failed to close verdict file", "error", err)
			}
		}
		return &Backend{Storer: s, Reader: s, Health: server.NewOkHealthChecker(), closeFn: closeFn}, nil

	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		s, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{Storer: s, Reader: s, Health: pg.NewHealthChecker(pool), closeFn: pool.Close}, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		s, err := es.NewStorer(ctx, *cfg.Es)
		if err != nil {
			return nil, err
		}
		return &Backend{Storer: s, Reader: s, Health: es.NewHealthChecker(s)}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
