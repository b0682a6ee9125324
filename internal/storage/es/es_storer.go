package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/report"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

type Storer struct {
	client    *elasticsearch.TypedClient
	indexName string
	config    ClientConfig
}

// Document is the run document shape stored in Elasticsearch. The full
// report rides along as an unmapped object so queries only touch the
// summary fields.
type Document struct {
	RunID      string          `json:"run_id"`
	Timestamp  time.Time       `json:"timestamp"`
	Operations int             `json:"operations"`
	Failures   int             `json:"failures"`
	ArchivedAt time.Time       `json:"archived_at"`
	Report     json.RawMessage `json:"report"`
}

func NewStorer(ctx context.Context, config ClientConfig) (*Storer, error) {
	client, err := newClient(config)

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	storer := &Storer{
		client:    client,
		indexName: config.IndexName,
		config:    config,
	}

	if err := storer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return storer, nil
}

func (e *Storer) SaveRun(ctx context.Context, r *report.Report) error {
	payload, err := report.Encode(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	doc := Document{
		RunID:      r.Meta.RunID.String(),
		Timestamp:  r.Meta.Timestamp,
		Operations: len(r.Operations),
		Failures:   len(r.Failures),
		ArchivedAt: time.Now(),
		Report:     payload,
	}

	res, err := e.client.Index(e.indexName).Id(doc.RunID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index run document: %w", err)
	}

	slog.Info("Run archived", "run_id", doc.RunID, "index", e.indexName, "result", res.Result)
	return nil
}

func (e *Storer) Close() {}

func (e *Storer) EnsureIndex(ctx context.Context) error {
	existsRes, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}

	if existsRes {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	reportProp := types.NewObjectProperty()
	enabled := false
	reportProp.Enabled = &enabled

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"run_id":      types.NewKeywordProperty(),
			"timestamp":   types.NewDateProperty(),
			"operations":  types.NewIntegerNumberProperty(),
			"failures":    types.NewIntegerNumberProperty(),
			"archived_at": types.NewDateProperty(),
			"report":      reportProp,
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

	slog.Info("Index created successfully", "index", e.indexName)
	return nil
}

func summaryFromDocument(doc Document) (storage.RunSummary, error) {
	id, err := uuid.Parse(doc.RunID)
	if err != nil {
		return storage.RunSummary{}, fmt.Errorf("failed to parse run id %q: %w", doc.RunID, err)
	}
	return storage.RunSummary{
		RunID:      id,
		Timestamp:  doc.Timestamp,
		Operations: doc.Operations,
		Failures:   doc.Failures,
	}, nil
}

var _ storage.RunStorer = (*Storer)(nil)
