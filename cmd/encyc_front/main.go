// Package main Encyclopedia Front API
// @title Encyclopedia Front API
// @version 1.0
// @description Read-only presentation API over the encyclopedia wiki: articles, authors, primary sources and citations
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	_ "github.com/DjordjeVuckovic/encyc-front/docs"
	"github.com/DjordjeVuckovic/encyc-front/internal/api/router"
	"github.com/DjordjeVuckovic/encyc-front/internal/api/server"
	"github.com/DjordjeVuckovic/encyc-front/internal/cache"
	"github.com/DjordjeVuckovic/encyc-front/internal/citation"
	"github.com/DjordjeVuckovic/encyc-front/internal/embed"
	"github.com/DjordjeVuckovic/encyc-front/internal/embed/views"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/sources"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage/factory"
	"github.com/DjordjeVuckovic/encyc-front/internal/transform"
	"github.com/DjordjeVuckovic/encyc-front/internal/wiki"
	"github.com/DjordjeVuckovic/encyc-front/pkg/config/env"
	pkgserver "github.com/DjordjeVuckovic/encyc-front/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(env.LogLevel())

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	store, err := factory.NewStore(context.Background(), &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create document store", "error", err)
		os.Exit(1)
		return
	}

	responseCache, err := cache.New(context.Background(), cfg.CacheConfig)
	if err != nil {
		slog.Error("Failed to create cache", "error", err)
		os.Exit(1)
		return
	}

	health := pkgserver.Composite{store}
	if hc, ok := responseCache.(pkgserver.HealthChecker); ok {
		health = append(health, hc)
	}

	s := server.New(sCfg, health).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Encyclopedia front is running")
	})
	keyer := cache.Keyer{Prefix: cfg.CacheConfig.Prefix}

	site := cfg.Settings
	wikiClient, err := wiki.NewClient(cfg.Wiki.APIURL,
		wiki.WithHttpClient(&http.Client{Timeout: cfg.Wiki.Timeout}),
		wiki.WithRateLimit(cfg.Wiki.RateLimit, cfg.Wiki.Burst),
		wiki.WithCategories(site.Categories),
		wiki.WithCache(responseCache, keyer, cfg.CacheConfig.TTL),
	)
	if err != nil {
		slog.Error("Failed to create wiki client", "error", err)
		os.Exit(1)
		return
	}

	sourcesClient, err := sources.NewClient(cfg.Sources.BaseURL,
		sources.WithHttpClient(&http.Client{Timeout: cfg.Sources.Timeout}),
		sources.WithMode(cfg.Sources.Mode),
		sources.WithCache(responseCache, keyer, cfg.CacheConfig.TTL),
	)
	if err != nil {
		slog.Error("Failed to create sources client", "error", err)
		os.Exit(1)
		return
	}

	renderer := embed.NewRenderer(embed.Config{
		MediaURL:        site.MediaURL,
		SourceMediaURL:  site.SourceMediaURL,
		SourcesPath:     site.SourcesPath,
		StreamingPrefix: site.StreamingPrefix,
		ImageIcon:       site.Placeholders.Image,
		VideoIcon:       site.Placeholders.Video,
		DocumentIcon:    site.Placeholders.Document,
	}, views.NewRenderer())
	pipeline := transform.New(site, policy.New(site.ShowUnpublished), sourcesClient, renderer)

	citer, err := citation.NewBuilder(site.SiteURL, site.SourcesPath, wikiClient, sourcesClient)
	if err != nil {
		slog.Error("Failed to create citation builder", "error", err)
		os.Exit(1)
		return
	}

	router.NewContentRouter(s.Echo, store,
		router.WithSettings(site),
		router.WithLiveWiki(wikiClient, pipeline),
		router.WithSourceLookup(sourcesClient),
		router.WithCitations(citer),
	).Bind()

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	go cache.RunPurger(purgeCtx, responseCache, cfg.CacheConfig.PurgeInterval)

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
		stopPurge()
	}()

	err = s.Start()
	stopPurge()
	store.Close()
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
