package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/report"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Storer struct {
	db   *pgxpool.Pool
	pool *ConnectionPool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{db: pool.conn, pool: pool}, nil
}

func (s *Storer) SaveRun(ctx context.Context, r *report.Report) error {
	payload, err := report.Encode(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	cmd := `
        INSERT INTO benchmark_runs (id, created_at, operations, failures, report)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
        SET created_at = EXCLUDED.created_at,
            operations = EXCLUDED.operations,
            failures   = EXCLUDED.failures,
            report     = EXCLUDED.report;
    `
	_, err = s.db.Exec(
		ctx,
		cmd,
		r.Meta.RunID,
		r.Meta.Timestamp,
		len(r.Operations),
		len(r.Failures),
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	slog.Info("Run archived", "run_id", r.Meta.RunID, "backend", "postgres")
	return nil
}

func (s *Storer) Close() {
	s.pool.Close()
}

func (s *Storer) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

var _ storage.RunStorer = (*Storer)(nil)
var _ storage.Pinger = (*Storer)(nil)
