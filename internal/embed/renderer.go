// Package embed turns a resolved primary source into the markup that replaces
// its image anchor in the page body.
package embed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/fragment"
	"github.com/PuerkitoBio/goquery"
)

const (
	videoWidth       = 640
	videoHeight      = 480
	videoHeightHD    = 360
	playerChrome     = 20
	aspectRatioHD    = "hd"
	defaultSourceDir = "/sources/"
)

// TemplateRenderer renders an embed context to markup.
type TemplateRenderer interface {
	RenderEmbed(ctx context.Context, ec Context) (string, error)
}

type Config struct {
	MediaURL        string
	SourceMediaURL  string
	SourcesPath     string
	StreamingPrefix string
	ImageIcon       string
	VideoIcon       string
	DocumentIcon    string
}

type Renderer struct {
	cfg       Config
	templates TemplateRenderer
}

func NewRenderer(cfg Config, templates TemplateRenderer) *Renderer {
	if cfg.SourcesPath == "" {
		cfg.SourcesPath = defaultSourceDir
	}
	return &Renderer{cfg: cfg, templates: templates}
}

// Lookup finds the record an image anchor refers to. It reports false when
// the anchor's image has no extractable identifier or nothing resolved.
func Lookup(anchor *goquery.Selection, table map[string]domain.PrimarySource) (domain.PrimarySource, bool) {
	src, ok := anchor.Find("img").Attr("src")
	if !ok {
		return domain.PrimarySource{}, false
	}
	id := fragment.NormalizeID(fragment.ExtractEncyclopediaID(src))
	if id == "" {
		return domain.PrimarySource{}, false
	}
	rec, ok := table[id]
	return rec, ok
}

// Render replaces anchor with the embed for its primary source. It returns
// the record used, or false when the anchor was left untouched.
func (r *Renderer) Render(ctx context.Context, anchor *goquery.Selection, table map[string]domain.PrimarySource, multiple bool) (domain.PrimarySource, bool, error) {
	rec, ok := Lookup(anchor, table)
	if !ok {
		return domain.PrimarySource{}, false, nil
	}

	ec, ok := r.BuildContext(rec, multiple)
	if !ok {
		slog.Debug("Unsupported media format, leaving anchor", "id", rec.EncyclopediaID, "format", rec.MediaFormat)
		return domain.PrimarySource{}, false, nil
	}

	markup, err := r.templates.RenderEmbed(ctx, ec)
	if err != nil {
		return domain.PrimarySource{}, false, fmt.Errorf("failed to render %s embed %s: %w", rec.MediaFormat, rec.EncyclopediaID, err)
	}

	anchor.ReplaceWithHtml(markup)
	return rec, true, nil
}

// BuildContext selects the embed variant for the record's media format and
// fills its fields. It reports false for unknown formats.
func (r *Renderer) BuildContext(rec domain.PrimarySource, multiple bool) (Context, bool) {
	common := CommonEmbed{
		EncyclopediaID: rec.EncyclopediaID,
		MediaFormat:    rec.MediaFormat,
		Href:           r.sourceHref(rec.EncyclopediaID),
		Caption:        rec.Caption,
		Courtesy:       rec.Courtesy,
		Multiple:       multiple,
		MediaURL:       r.cfg.MediaURL,
		SourceMediaURL: r.cfg.SourceMediaURL,
	}

	switch rec.MediaFormat {
	case domain.MediaImage:
		sm := Fallback(rec, r.icon(r.cfg.ImageIcon), ThumbnailSm, Display, Original)
		return ImageEmbed{
			CommonEmbed: common,
			ThumbSm:     sm,
			ThumbLg:     Fallback(rec, sm, ThumbnailLg, Display, Original),
		}, true

	case domain.MediaDocument:
		sm := Fallback(rec, r.icon(r.cfg.DocumentIcon), ThumbnailSm, Display, Original)
		return DocumentEmbed{
			CommonEmbed: common,
			ThumbSm:     sm,
			ThumbLg:     Fallback(rec, sm, ThumbnailLg, Display, Original),
		}, true

	case domain.MediaVideo:
		sm := Fallback(rec, r.icon(r.cfg.VideoIcon), ThumbnailSm, Display)
		streamer, path := SplitStreamingURL(rec.StreamingURL, r.cfg.StreamingPrefix)
		width, height := VideoSize(rec.AspectRatio)
		return VideoEmbed{
			CommonEmbed:   common,
			ThumbSm:       sm,
			ThumbLg:       Fallback(rec, sm, ThumbnailLg, Display),
			Streamer:      streamer,
			StreamingPath: path,
			Width:         width,
			Height:        height,
		}, true
	}
	return nil, false
}

// VideoSize returns the player size for an aspect-ratio hint, including the
// vertical space taken by the player controls.
func VideoSize(aspectRatio string) (width, height int) {
	height = videoHeight
	if strings.EqualFold(aspectRatio, aspectRatioHD) {
		height = videoHeightHD
	}
	return videoWidth, height + playerChrome
}

func (r *Renderer) sourceHref(id string) string {
	return strings.TrimSuffix(r.cfg.SourcesPath, "/") + "/" + url.PathEscape(id) + "/"
}

func (r *Renderer) icon(name string) string {
	if name == "" || r.cfg.MediaURL == "" {
		return name
	}
	return strings.TrimSuffix(r.cfg.MediaURL, "/") + "/" + strings.TrimPrefix(name, "/")
}
