package storage

import (
	"context"
	"errors"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/report"
	"github.com/google/uuid"
)

type Type string

const (
	PG   Type = "postgres"
	ES   Type = "elasticsearch"
	File Type = "file"
)

// ErrRunNotFound is returned by readers when no archived run matches the id.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is the listing view of an archived benchmark run.
type RunSummary struct {
	RunID      uuid.UUID `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Operations int       `json:"operations"`
	Failures   int       `json:"failures"`
}

// RunStorer archives finished benchmark reports.
type RunStorer interface {
	SaveRun(ctx context.Context, r *report.Report) error
	Close()
}

// RunReader serves archived runs back out, newest first.
type RunReader interface {
	ListRuns(ctx context.Context) ([]RunSummary, error)
	GetRun(ctx context.Context, id uuid.UUID) (*report.Report, error)
}

// Pinger is implemented by backends that can verify connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Summarize extracts the listing view from a full report.
func Summarize(r *report.Report) RunSummary {
	return RunSummary{
		RunID:      r.Meta.RunID,
		Timestamp:  r.Meta.Timestamp,
		Operations: len(r.Operations),
		Failures:   len(r.Failures),
	}
}
