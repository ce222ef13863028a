// Package citation builds the records behind the "cite this page" views.
package citation

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/wiki"
)

type PageInfoer interface {
	PageInfo(ctx context.Context, title string) (*wiki.PageStamp, error)
}

type SourceLookup interface {
	Source(ctx context.Context, id string) (*domain.PrimarySource, error)
}

type Citation struct {
	Title     string    `json:"title"`
	Authors   Authors   `json:"authors"`
	LastMod   time.Time `json:"lastmod"`
	Retrieved time.Time `json:"retrieved"`
	Href      string    `json:"href"`
}

type Builder struct {
	siteURL     *url.URL
	sourcesPath string
	pages       PageInfoer
	sources     SourceLookup
	now         func() time.Time
}

func NewBuilder(siteURL, sourcesPath string, pages PageInfoer, sources SourceLookup) (*Builder, error) {
	u, err := url.Parse(siteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid site url %q", siteURL)
	}
	if sourcesPath == "" {
		sourcesPath = "/sources/"
	}
	return &Builder{
		siteURL:     u,
		sourcesPath: sourcesPath,
		pages:       pages,
		sources:     sources,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Page cites a wiki page. authors are display names in "Given Surname" form.
func (b *Builder) Page(ctx context.Context, title string, authors []string) (*Citation, error) {
	info, err := b.pages.PageInfo(ctx, title)
	if err != nil {
		return nil, err
	}
	return &Citation{
		Title:     info.Title,
		Authors:   FormatAuthors(authors),
		LastMod:   info.Modified,
		Retrieved: b.now(),
		Href:      b.absolute("/" + url.PathEscape(strings.ReplaceAll(info.Title, " ", "_"))),
	}, nil
}

// Source cites a primary source record.
func (b *Builder) Source(ctx context.Context, id string) (*Citation, error) {
	rec, err := b.sources.Source(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Citation{
		Title:     rec.EncyclopediaID,
		LastMod:   rec.Modified.Time,
		Retrieved: b.now(),
		Href:      b.absolute(strings.TrimSuffix(b.sourcesPath, "/") + "/" + url.PathEscape(rec.EncyclopediaID) + "/"),
	}, nil
}

func (b *Builder) absolute(path string) string {
	u := *b.siteURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawPath = ""
	return u.String()
}
