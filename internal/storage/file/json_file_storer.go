package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/DjordjeVuckovic/cptool/internal/storage"
	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/google/uuid"
)

// JsonFileStorer appends verdicts to a file, one JSON document per line.
type JsonFileStorer struct {
	mu       sync.Mutex
	filePath string
	file     *os.File
}

// NewJsonFileStorer opens filePath for appending, creating it if needed.
func NewJsonFileStorer(filePath string) (*JsonFileStorer, error) {
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open verdict file: %w", err)
	}
	return &JsonFileStorer{filePath: filePath, file: f}, nil
}

func (s *JsonFileStorer) Save(ctx context.Context, v *verdict.Verdict) error {
	return s.SaveBulk(ctx, []*verdict.Verdict{v})
}

func (s *JsonFileStorer) SaveBulk(_ context.Context, vs []*verdict.Verdict) error {
	if len(vs) == 0 {
		return nil
	}

	var buf []byte
	for _, v := range vs {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		line, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal verdict %s: %w", v.ID, err)
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Write(buf); err != nil {
		return fmt.Errorf("failed to write verdicts: %w", err)
	}
	slog.Debug("verdicts appended to file", "count", len(vs), "path", s.filePath)
	return nil
}

// Get scans the file for id. The last record with that ID wins.
func (s *JsonFileStorer) Get(ctx context.Context, id uuid.UUID) (*verdict.Verdict, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open verdict file: %w", err)
	}
	defer f.Close()

	var found *verdict.Verdict
	dec := json.NewDecoder(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var v verdict.Verdict
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode verdict file %s: %w", s.filePath, err)
		}
		if v.ID == id {
			found = &v
		}
	}

	if found == nil {
		return nil, storage.ErrNotFound
	}
	return found, nil
}

func (s *JsonFileStorer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
