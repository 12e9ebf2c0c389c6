package es

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/cptool/internal/storage"
	"github.com/DjordjeVuckovic/cptool/internal/verdict"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

// Document is the verdict as indexed in Elasticsearch.
type Document struct {
	ID         string    `json:"id"`
	Grammar    string    `json:"grammar"`
	Source     string    `json:"source"`
	Accepted   bool      `json:"accepted"`
	Offset     int       `json:"byte_offset"`
	Rule       string    `json:"rule"`
	Reason     string    `json:"reason"`
	Size       int       `json:"size"`
	CheckedAt  time.Time `json:"checked_at"`
	DurationNs int64     `json:"duration_ns"`
	IndexedAt  time.Time `json:"indexed_at"`
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	storer := &Storer{
		client:    client,
		indexName: config.IndexName,
	}

	if err := storer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return storer, nil
}

func (e *Storer) Save(ctx context.Context, v *verdict.Verdict) error {
	doc := toDocument(v)

	res, err := e.client.Index(e.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index verdict: %w", err)
	}

	slog.Debug("verdict indexed", "id", doc.ID, "index", e.indexName, "result", res.Result)
	return nil
}

func (e *Storer) SaveBulk(ctx context.Context, vs []*verdict.Verdict) error {
	if len(vs) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         e.indexName,
		Client:        e.client,
		NumWorkers:    2,
		FlushBytes:    1e+6,
		FlushInterval: 5 * time.Second,
		Refresh:       "true",
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var successful, failed atomic.Int64

	for _, v := range vs {
		doc := toDocument(v)

		body, err := json.Marshal(doc)
		if err != nil {
			slog.Error("failed to marshal verdict", "error", err, "id", doc.ID)
			failed.Add(1)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(body),
			OnSuccess: func(context.Context, esutil.BulkIndexerItem, esutil.BulkIndexerResponseItem) {
				successful.Add(1)
			},
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "status", res.Status, "error", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			failed.Add(1)
			slog.Error("failed to add verdict to bulk indexer", "error", err, "id", doc.ID)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	slog.Debug("bulk indexing completed",
		"successful", successful.Load(),
		"failed", failed.Load(),
		"total", len(vs),
		"index", e.indexName)

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d out of %d verdicts", n, len(vs))
	}
	return nil
}

func (e *Storer) Get(ctx context.Context, id uuid.UUID) (*verdict.Verdict, error) {
	res, err := e.client.Get(e.indexName, id.String()).Do(ctx)
	if err != nil {
		var esErr *types.ElasticsearchError
		if errors.As(err, &esErr) && esErr.Status == http.StatusNotFound {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get verdict: %w", err)
	}
	if !res.Found {
		return nil, storage.ErrNotFound
	}

	var doc Document
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode verdict document: %w", err)
	}
	return fromDocument(doc)
}

func (e *Storer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if exists {
		slog.Debug("index already exists", "index", e.indexName)
		return nil
	}

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"grammar":     types.NewKeywordProperty(),
			"source":      types.NewKeywordProperty(),
			"accepted":    types.NewBooleanProperty(),
			"byte_offset": types.NewIntegerNumberProperty(),
			"rule":        types.NewKeywordProperty(),
			"reason":      types.NewTextProperty(),
			"size":        types.NewLongNumberProperty(),
			"checked_at":  types.NewDateProperty(),
			"duration_ns": types.NewLongNumberProperty(),
			"indexed_at":  types.NewDateProperty(),
		},
	}

	createRes, err := e.client.Indices.Create(e.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("index created", "index", e.indexName)
	return nil
}

func toDocument(v *verdict.Verdict) Document {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return Document{
		ID:         v.ID.String(),
		Grammar:    v.Grammar,
		Source:     v.Source,
		Accepted:   v.Accepted,
		Offset:     v.Offset,
		Rule:       v.Rule,
		Reason:     v.Reason,
		Size:       v.Size,
		CheckedAt:  v.CheckedAt,
		DurationNs: v.Duration.Nanoseconds(),
		IndexedAt:  time.Now().UTC(),
	}
}

func fromDocument(doc Document) (*verdict.Verdict, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verdict ID: %w", err)
	}
	return &verdict.Verdict{
		ID:        id,
		Grammar:   doc.Grammar,
		Source:    doc.Source,
		Accepted:  doc.Accepted,
		Offset:    doc.Offset,
		Rule:      doc.Rule,
		Reason:    doc.Reason,
		Size:      doc.Size,
		CheckedAt: doc.CheckedAt,
		Duration:  time.Duration(doc.DurationNs),
	}, nil
}
