package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/citation"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/settings"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/internal/transform"
	"github.com/labstack/echo/v4"
)

type PageSource interface {
	Page(ctx context.Context, title string) (*domain.Page, error)
}

type Transformer interface {
	Transform(ctx context.Context, page domain.Page, vis policy.Visibility, opts ...transform.Option) (*transform.Result, error)
}

type SourceLookup interface {
	Source(ctx context.Context, id string) (*domain.PrimarySource, error)
}

type Citer interface {
	Page(ctx context.Context, title string, authors []string) (*citation.Citation, error)
	Source(ctx context.Context, id string) (*citation.Citation, error)
}

type ContentRouterOption func(*ContentRouter)

type ContentRouter struct {
	e       *echo.Echo
	storage storage.Reader

	pages           PageSource
	transformer     Transformer
	sources         SourceLookup
	citer           Citer
	streamingPrefix string
	sourcesPath     string
}

func NewContentRouter(e *echo.Echo, storage storage.Reader, opts ...ContentRouterOption) *ContentRouter {
	r := &ContentRouter{
		e:           e,
		storage:     storage,
		sourcesPath: "/sources/",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithLiveWiki enables /wiki/:title, which transforms pages fetched straight
// from the wiki.
func WithLiveWiki(pages PageSource, transformer Transformer) ContentRouterOption {
	return func(r *ContentRouter) {
		r.pages = pages
		r.transformer = transformer
	}
}

// WithSourceLookup falls back to the metadata service for sources missing
// from the index.
func WithSourceLookup(sources SourceLookup) ContentRouterOption {
	return func(r *ContentRouter) {
		r.sources = sources
	}
}

func WithCitations(citer Citer) ContentRouterOption {
	return func(r *ContentRouter) {
		r.citer = citer
	}
}

// WithSettings applies the site's streaming prefix and sources path.
func WithSettings(s *settings.Settings) ContentRouterOption {
	return func(r *ContentRouter) {
		r.streamingPrefix = s.StreamingPrefix
		if s.SourcesPath != "" {
			r.sourcesPath = s.SourcesPath
		}
	}
}

func (r *ContentRouter) Bind() {
	api := r.e.Group("/api")
	api.GET("/articles", r.listArticles)
	api.GET("/articles/:title", r.getArticle)
	api.GET("/authors", r.listAuthors)
	api.GET("/authors/:title", r.getAuthor)
	api.GET("/sources/:id", r.getSource)

	if r.citer != nil {
		api.GET("/cite/page/:title", r.citePage)
		api.GET("/cite/source/:id", r.citeSource)
	}
	if r.pages != nil && r.transformer != nil {
		r.e.GET("/wiki/:title", r.livePage)
	}
}

// titleParam returns the decoded path parameter.
func titleParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if title, err := url.PathUnescape(raw); err == nil {
		raw = title
	}
	return strings.TrimSpace(raw)
}

// getByTitle reads a document by url title. Titles written with underscores
// fall back to their spaced form.
func (r *ContentRouter) getByTitle(ctx context.Context, c storage.Collection, title string, out any) error {
	err := r.storage.Get(ctx, c, title, out)
	if err == nil || !apperr.IsNotFound(err) || !strings.Contains(title, "_") {
		return err
	}
	return r.storage.Get(ctx, c, strings.ReplaceAll(title, "_", " "), out)
}

func decodeItems[T any](items []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Join(errors.New("failed to decode stored document"), err)
		}
		out = append(out, v)
	}
	return out, nil
}

func articleURL(title string) string { return "/api/articles/" + url.PathEscape(title) }
func authorURL(title string) string  { return "/api/authors/" + url.PathEscape(title) }
func sourceURL(id string) string     { return "/api/sources/" + url.PathEscape(id) }

// pagePath is the public path of a wiki page.
func pagePath(title string) string {
	return "/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}
