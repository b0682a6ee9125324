package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/report"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"
)

// maxListedRuns caps the run listing; older runs stay queryable by id.
const maxListedRuns = 200

type Reader struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewReader(config ClientConfig) (*Reader, error) {
	client, err := newClient(config)

	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Reader{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

func (r *Reader) ListRuns(ctx context.Context) ([]storage.RunSummary, error) {
	sortOrderDesc := sortorder.Desc
	res, err := r.client.Search().
		Index(r.indexName).
		Query(&types.Query{
			MatchAll: &types.MatchAllQuery{},
		}).
		Size(maxListedRuns).
		Sort(&types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"timestamp": {Order: &sortOrderDesc},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	summaries := make([]storage.RunSummary, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc Document
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run document: %w", err)
		}
		summary, err := summaryFromDocument(doc)
		if err != nil {
			slog.Warn("Skipping run document with malformed id", "error", err)
			continue
		}
		summaries = append(summaries, summary)
	}

	slog.Info("Runs listed", "index", r.indexName, "count", len(summaries))
	return summaries, nil
}

func (r *Reader) GetRun(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	res, err := r.client.Get(r.indexName, id.String()).Do(ctx)
	if err != nil {
		var esErr *types.ElasticsearchError
		if errors.As(err, &esErr) && esErr.Status == 404 {
			return nil, storage.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to fetch run %s: %w", id, err)
	}
	if !res.Found {
		return nil, storage.ErrRunNotFound
	}

	var doc Document
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run document: %w", err)
	}
	return report.Decode(doc.Report)
}

func (r *Reader) Close() {}

var _ storage.RunReader = (*Reader)(nil)
