package factory

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/cptool/internal/storage"
	"github.com/DjordjeVuckovic/cptool/internal/storage/es"
	"github.com/DjordjeVuckovic/cptool/internal/storage/pg"
	"github.com/DjordjeVuckovic/cptool/pkg/utils"
)

type StorageConfig struct {
	storage.Type
	Pg *pg.PoolConfig
	Es *es.ClientConfig
	// FilePath is the JSON lines file used by the file storage type.
	FilePath string
}

var supportedTypes = []storage.Type{storage.None, storage.InMem, storage.File, storage.PG, storage.ES}

// LoadEnv reads STORAGE_TYPE and the backend settings it needs.
// An unset STORAGE_TYPE means verdicts are not persisted.
func LoadEnv() (*StorageConfig, error) {
	storageType := storage.Type(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Debug("STORAGE_TYPE is not set, verdicts will not be stored")
		storageType = storage.None
	}

	switch storageType {
	case storage.None, storage.InMem:
		return &StorageConfig{Type: storageType}, nil

	case storage.File:
		path := os.Getenv("VERDICT_FILE")
		if path == "" {
			path = "verdicts.jsonl"
		}
		return &StorageConfig{Type: storageType, FilePath: path}, nil

	case storage.ES:
		esCfg := &es.ClientConfig{
			Addresses: utils.SplitList(os.Getenv("ES_ADDRESSES")),
			IndexName: os.Getenv("ES_INDEX_NAME"),
			Username:  os.Getenv("ES_USERNAME"),
			Password:  os.Getenv("ES_PASSWORD"),
		}
		if esCfg.IndexName == "" {
			esCfg.IndexName = "verdicts"
		}
		if len(esCfg.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", esCfg.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: ES_ADDRESSES is missing")
		}
		return &StorageConfig{Type: storageType, Es: esCfg}, nil

	case storage.PG:
		pgCfg := &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if pgCfg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PG_CONNECTION_STRING environment variable is not set")
		}
		if v := os.Getenv("PG_MAX_CONNS"); v != "" {
			n, err := strconv.ParseInt(v, 10, 32)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid PG_MAX_CONNS value %q: must be a positive integer", v)
			}
			pgCfg.MaxConns = int32(n)
		}
		return &StorageConfig{Type: storageType, Pg: pgCfg}, nil

	default:
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			supportedTypes)
	}
}
