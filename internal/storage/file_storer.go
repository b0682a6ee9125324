package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/report"
	"github.com/google/uuid"
)

// FileStore archives each run as <run_id>.json inside a directory. It is
// the zero-infrastructure backend used for local benchmarking.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory is not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) SaveRun(ctx context.Context, r *report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.runPath(r.Meta.RunID)
	if err := report.WriteJSON(r, path); err != nil {
		return fmt.Errorf("failed to archive run %s: %w", r.Meta.RunID, err)
	}
	slog.Info("Run archived", "run_id", r.Meta.RunID, "path", path)
	return nil
}

func (s *FileStore) ListRuns(ctx context.Context) ([]RunSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	summaries := make([]RunSummary, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			slog.Warn("Skipping non-run file in archive", "name", entry.Name())
			continue
		}
		r, err := report.ReadJSON(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			slog.Warn("Skipping unreadable run file", "name", entry.Name(), "error", err)
			continue
		}
		summary := Summarize(r)
		summary.RunID = id
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Timestamp.After(summaries[j].Timestamp)
	})
	return summaries, nil
}

func (s *FileStore) GetRun(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := report.ReadJSON(s.runPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	return r, nil
}

func (s *FileStore) Close() {}

func (s *FileStore) runPath(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".json")
}

var _ RunStorer = (*FileStore)(nil)
var _ RunReader = (*FileStore)(nil)
