package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/report"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reader struct {
	db   *pgxpool.Pool
	pool *ConnectionPool
}

func NewReader(pool *ConnectionPool) (*Reader, error) {
	return &Reader{db: pool.conn, pool: pool}, nil
}

func (r *Reader) ListRuns(ctx context.Context) ([]storage.RunSummary, error) {
	query := `
        SELECT id, created_at, operations, failures
        FROM benchmark_runs
        ORDER BY created_at DESC;
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]storage.RunSummary, 0)
	for rows.Next() {
		var s storage.RunSummary
		if err := rows.Scan(&s.RunID, &s.Timestamp, &s.Operations, &s.Failures); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate run rows: %w", err)
	}
	return summaries, nil
}

func (r *Reader) GetRun(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	query := `SELECT report FROM benchmark_runs WHERE id = $1;`

	var payload []byte
	err := r.db.QueryRow(ctx, query, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to fetch run %s: %w", id, err)
	}
	return report.Decode(payload)
}

func (r *Reader) Close() {
	r.pool.Close()
}

func (r *Reader) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ storage.RunReader = (*Reader)(nil)
