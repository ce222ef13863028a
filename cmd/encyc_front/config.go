package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/encyc-front/internal/cache"
	"github.com/DjordjeVuckovic/encyc-front/internal/settings"
	"github.com/DjordjeVuckovic/encyc-front/internal/sources"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage/factory"
	"github.com/DjordjeVuckovic/encyc-front/internal/wiki"
	"github.com/DjordjeVuckovic/encyc-front/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type FrontConfig struct {
	Settings      *settings.Settings
	StorageConfig factory.StorageConfig
	CacheConfig   cache.Config
	Wiki          wiki.Config
	Sources       sources.Config
}

func (as *AppConfig) Load() (*FrontConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/encyc_front/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	site, err := settings.Load()
	if err != nil {
		slog.Error("Failed to load site settings", "error", err)
		return nil, err
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	cacheCfg, err := cache.LoadEnv()
	if err != nil {
		slog.Error("Failed to load cache configuration from environment", "error", err)
		return nil, err
	}

	wikiCfg, err := wiki.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load wiki configuration from environment", "error", err)
		return nil, err
	}

	sourcesCfg, err := sources.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load sources configuration from environment", "error", err)
		return nil, err
	}

	return &FrontConfig{
		Settings:      site,
		StorageConfig: *storageCfg,
		CacheConfig:   *cacheCfg,
		Wiki:          *wikiCfg,
		Sources:       *sourcesCfg,
	}, nil
}
