package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage/es"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage/pg"
	"github.com/DjordjeVuckovic/encyc-front/pkg/server"
)

// Store is a document store that can report its own health.
type Store interface {
	storage.DocumentStore
	server.HealthChecker
}

// NewStore creates the document store selected by cfg.Type.
func NewStore(ctx context.Context, cfg *StorageConfig) (Store, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}
		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}
		store, err := pg.NewStorer(pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return store, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		return es.NewStorer(ctx, *cfg.Es)

	case storage.InMem:
		return in_mem.NewInMemStorer(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
