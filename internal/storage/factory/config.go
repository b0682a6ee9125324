package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage/es"
	"github.com/DjordjeVuckovic/weight-forge/internal/storage/pg"
)

type StorageConfig struct {
	storage.Type
	Pg      *pg.PoolConfig
	Es      *es.ClientConfig
	FileDir string
}

// FromPlan maps a plan archive section to a storage config.
func FromPlan(cfg *spec.ArchiveConfig) (*StorageConfig, error) {
	if cfg == nil {
		return nil, fmt.Errorf("plan has no archive section")
	}

	switch storage.Type(cfg.Type) {
	case storage.PG:
		return &StorageConfig{
			Type: storage.PG,
			Pg:   &pg.PoolConfig{ConnStr: cfg.Connection},
		}, nil
	case storage.ES:
		index := cfg.Index
		if index == "" {
			index = defaultIndexName
		}
		return &StorageConfig{
			Type: storage.ES,
			Es: &es.ClientConfig{
				Addresses: strings.Split(cfg.Connection, ","),
				IndexName: index,
			},
		}, nil
	case storage.File:
		return &StorageConfig{
			Type:    storage.File,
			FileDir: cfg.Dir,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", cfg.Type)
	}
}

const defaultIndexName = "benchmark-runs"

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if storageType != storage.ES && storageType != storage.PG && storageType != storage.File {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			[]storage.Type{storage.ES, storage.PG, storage.File})
	}

	var esCfg *es.ClientConfig
	if storageType == storage.ES {
		esCfg = &es.ClientConfig{
			Addresses: strings.Split(os.Getenv("ES_ADDRESSES"), ","),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if esCfg.IndexName == "" {
			esCfg.IndexName = defaultIndexName
		}
		if len(esCfg.Addresses) == 0 || esCfg.Addresses[0] == "" {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", esCfg.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses missing")
		}
	}

	var pgCfg *pg.PoolConfig
	if storageType == storage.PG {
		pgCfg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
	}

	var fileDir string
	if storageType == storage.File {
		fileDir = os.Getenv("ARCHIVE_DIR")
		if fileDir == "" {
			slog.Error("ARCHIVE_DIR environment variable is not set")
			return nil, fmt.Errorf("ARCHIVE_DIR environment variable is not set")
		}
	}

	return &StorageConfig{
		Type:    storageType,
		Pg:      pgCfg,
		Es:      esCfg,
		FileDir: fileDir,
	}, nil
}
