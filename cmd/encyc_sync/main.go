package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/encyc-front/internal/embed"
	"github.com/DjordjeVuckovic/encyc-front/internal/embed/views"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/reconcile"
	"github.com/DjordjeVuckovic/encyc-front/internal/sources"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage/factory"
	"github.com/DjordjeVuckovic/encyc-front/internal/transform"
	"github.com/DjordjeVuckovic/encyc-front/internal/wiki"
	"github.com/DjordjeVuckovic/encyc-front/pkg/config/env"
)

func main() {
	slog.SetLogLoggerLevel(env.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(buildDeps).ExecuteContext(ctx); err != nil {
		slog.Error("encyc-sync failed", "error", err)
		os.Exit(1)
	}
}

func buildDeps(ctx context.Context) (*deps, error) {
	cfg, err := NewAppConfig().Load()
	if err != nil {
		return nil, err
	}

	store, err := factory.NewStore(ctx, &cfg.StorageConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}

	wikiClient, err := wiki.NewClient(cfg.Wiki.APIURL,
		wiki.WithHttpClient(&http.Client{Timeout: cfg.Wiki.Timeout}),
		wiki.WithRateLimit(cfg.Wiki.RateLimit, cfg.Wiki.Burst),
		wiki.WithCategories(cfg.Settings.Categories),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	sourcesClient, err := sources.NewClient(cfg.Sources.BaseURL,
		sources.WithHttpClient(&http.Client{Timeout: cfg.Sources.Timeout}),
		sources.WithMode(cfg.Sources.Mode),
	)
	if err != nil {
		store.Close()
		return nil, err
	}

	s := cfg.Settings
	renderer := embed.NewRenderer(embed.Config{
		MediaURL:        s.MediaURL,
		SourceMediaURL:  s.SourceMediaURL,
		SourcesPath:     s.SourcesPath,
		StreamingPrefix: s.StreamingPrefix,
		ImageIcon:       s.Placeholders.Image,
		VideoIcon:       s.Placeholders.Video,
		DocumentIcon:    s.Placeholders.Document,
	}, views.NewRenderer())
	pipeline := transform.New(s, policy.New(s.ShowUnpublished), sourcesClient, renderer)

	return &deps{
		admin:  store,
		engine: reconcile.NewEngine(wikiClient, store, pipeline),
		close:  store.Close,
	}, nil
}
