package main

import (
	"log/slog"
	"os"

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

type SyncConfig struct {
	Settings      *settings.Settings
	StorageConfig factory.StorageConfig
	Wiki          wiki.Config
	Sources       sources.Config
}

func (as *AppConfig) Load() (*SyncConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/encyc_sync/.env")
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

	return &SyncConfig{
		Settings:      site,
		StorageConfig: *storageCfg,
		Wiki:          *wikiCfg,
		Sources:       *sourcesCfg,
	}, nil
}
