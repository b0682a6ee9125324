package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage/es"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage/pg"
)

// NewRunStorer creates the archive sink selected by the config.
func NewRunStorer(ctx context.Context, cfg *StorageConfig) (storage.RunStorer, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewStorer(pool)

	case storage.ES:
		return es.NewStorer(ctx, *cfg.Es)

	case storage.File:
		return storage.NewFileStore(cfg.FileDir)

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// NewRunReader creates the archive reader selected by the config.
func NewRunReader(ctx context.Context, cfg *StorageConfig) (storage.RunReader, error) {
	switch cfg.Type {
	case storage.PG:
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		return pg.NewReader(pool)

	case storage.ES:
		return es.NewReader(*cfg.Es)

	case storage.File:
		return storage.NewFileStore(cfg.FileDir)

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
