package cache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Type string

const (
	TypeMemory   Type = "memory"
	TypePostgres Type = "pg"
	TypeNone     Type = "none"

	DefaultTTL = 15 * time.Minute
)

type Config struct {
	Type          Type
	TTL           time.Duration
	Prefix        string
	ConnStr       string
	PurgeInterval time.Duration
}

func LoadEnv() (*Config, error) {
	cfg := &Config{
		Type:          Type(os.Getenv("CACHE_TYPE")),
		TTL:           DefaultTTL,
		Prefix:        os.Getenv("CACHE_PREFIX"),
		ConnStr:       os.Getenv("PG_CONNECTION_STRING"),
		PurgeInterval: DefaultPurgeInterval,
	}
	if cfg.Type == "" {
		cfg.Type = TypeMemory
	}
	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL %q: %w", raw, err)
		}
		cfg.TTL = ttl
	}
	if raw := os.Getenv("CACHE_PURGE_INTERVAL"); raw != "" {
		every, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_PURGE_INTERVAL %q: %w", raw, err)
		}
		cfg.PurgeInterval = every
	}
	if cfg.Type == TypePostgres && cfg.ConnStr == "" {
		return nil, fmt.Errorf("PG_CONNECTION_STRING is required for CACHE_TYPE=pg")
	}
	return cfg, nil
}

// New builds the configured cache backend.
func New(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Type {
	case TypeMemory, "":
		return NewMemory(), nil
	case TypeNone:
		return Noop{}, nil
	case TypePostgres:
		pool, err := pgxpool.New(ctx, cfg.ConnStr)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping cache DB: %w", err)
		}
		slog.Info("Using postgres cache")
		return NewPostgres(pool), nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Type)
	}
}
