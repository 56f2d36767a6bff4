// Package store persists OCR records keyed by document id.
package store

import (
	"context"
	"fmt"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/config"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
	"github.com/ridhwanrazaliwork/PR1ME-project/internal/observability"
)

// Store is the document store shared by ingestion and queries.
type Store interface {
	// Get returns the record for documentID or a not_found DomainError.
	Get(ctx context.Context, documentID string) (*domain.Record, error)
	// Put creates or replaces the record for documentID.
	Put(ctx context.Context, documentID string, record domain.Record) error
	Close() error
}

func notFound(documentID string) error {
	return domain.NotFoundError("Document not found", fmt.Errorf("document %q", documentID))
}

// Open builds the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, logger *observability.Logger) (Store, error) {
	if logger == nil {
		logger = observability.Nop()
	}

	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case config.StoreDriverJSON, "":
		s = NewJSONFileStore(cfg.JSON.Path)
	case config.StoreDriverSQLite:
		s, err = OpenSQLite(ctx, cfg.SQLite)
	case config.StoreDriverPostgres:
		s, err = OpenPostgres(ctx, cfg.Postgres)
	case config.StoreDriverRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	default:
		return nil, domain.ConfigError(fmt.Sprintf("unknown store driver %q", cfg.Driver), nil)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().Str("driver", cfg.Driver).Msg("document store opened")
	return s, nil
}
