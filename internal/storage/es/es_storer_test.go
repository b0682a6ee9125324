package es

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/analysis"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/report"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/weight-forge/pkg/testing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func archiveReport(id string, ts time.Time) *report.Report {
	return &report.Report{
		Meta: report.Meta{
			RunID:     uuid.MustParse(id),
			Timestamp: ts,
			Trial:     spec.TrialConfig{Steps: 4, Repeats: 2},
		},
		Operations: []report.OperationReport{
			{
				Spec: spec.OperationSpec{
					Module:     "ledger",
					Name:       "deposit",
					Components: []spec.Component{{Name: "n", Min: 1, Max: 1000}},
				},
				Models: []analysis.CostModel{
					{Metric: spec.MetricTime, Base: 50, Slopes: map[string]float64{"n": 2}},
				},
				SampleCount: 8,
			},
		},
	}
}

func TestESArchiveRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	esc := pkgtesting.NewESContainer(ctx, t)

	cfg := ClientConfig{
		Addresses: []string{esc.Address},
		IndexName: "benchmark-runs-test",
	}
	storer, err := NewStorer(ctx, cfg)
	require.NoError(t, err)
	reader, err := NewReader(cfg)
	require.NoError(t, err)

	older := archiveReport("11111111-1111-1111-1111-111111111111", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	newer := archiveReport("22222222-2222-2222-2222-222222222222", time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, storer.SaveRun(ctx, older))
	require.NoError(t, storer.SaveRun(ctx, newer))

	_, err = storer.client.Indices.Refresh().Index(cfg.IndexName).Do(ctx)
	require.NoError(t, err)

	summaries, err := reader.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, newer.Meta.RunID, summaries[0].RunID)
	assert.Equal(t, older.Meta.RunID, summaries[1].RunID)

	got, err := reader.GetRun(ctx, older.Meta.RunID)
	require.NoError(t, err)
	assert.Equal(t, older.Meta.RunID, got.Meta.RunID)
	require.Len(t, got.Operations, 1)
	assert.Equal(t, "ledger.deposit", got.Operations[0].Spec.ID())
}

func TestESArchiveMissingRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	esc := pkgtesting.NewESContainer(ctx, t)

	cfg := ClientConfig{
		Addresses: []string{esc.Address},
		IndexName: "benchmark-runs-test",
	}
	storer, err := NewStorer(ctx, cfg)
	require.NoError(t, err)
	_ = storer

	reader, err := NewReader(cfg)
	require.NoError(t, err)

	_, err = reader.GetRun(ctx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrRunNotFound)
}
