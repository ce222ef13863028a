// Package transform turns a raw wiki page into the publishable page body:
// policy check, markup cleanup and primary-source embeds.
package transform

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/fragment"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/settings"
	"github.com/PuerkitoBio/goquery"
)

type SourceResolver interface {
	Resolve(ctx context.Context, f *fragment.Fragment) (map[string]domain.PrimarySource, error)
}

type EmbedRenderer interface {
	Render(ctx context.Context, anchor *goquery.Selection, table map[string]domain.PrimarySource, multiple bool) (domain.PrimarySource, bool, error)
}

type Result struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	// Sources lists embedded source ids in document order.
	Sources  []string               `json:"sources"`
	Records  []domain.PrimarySource `json:"-"`
	Status   policy.Status          `json:"status"`
	Template policy.Template        `json:"template"`
}

type Pipeline struct {
	titleSuffix     string
	authorsCategory string
	links           fragment.LinkRules
	policy          *policy.Policy
	resolver        SourceResolver
	embeds          EmbedRenderer
}

func New(s *settings.Settings, pol *policy.Policy, resolver SourceResolver, embeds EmbedRenderer) *Pipeline {
	return &Pipeline{
		titleSuffix:     s.TitleSuffix,
		authorsCategory: s.Categories.Authors,
		links:           fragment.LinkRules{ScriptPath: s.ScriptPath},
		policy:          pol,
		resolver:        resolver,
		embeds:          embeds,
	}
}

type options struct {
	print   bool
	ungated bool
}

type Option func(*options)

// Print selects the print layout for article pages.
func Print() Option {
	return func(o *options) {
		o.print = true
	}
}

// Ungated renders the page whatever its publication state. Author pages are
// synced this way.
func Ungated() Option {
	return func(o *options) {
		o.ungated = true
	}
}

// Transform runs the page through policy and cleanup. A page blocked by
// policy comes back with StatusUnpublished and no body. Source enrichment
// failures are logged and leave the affected anchors untouched.
func (p *Pipeline) Transform(ctx context.Context, page domain.Page, vis policy.Visibility, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	res := &Result{Title: p.Title(page), Sources: []string{}}

	meta := policy.MetaFromPage(page, p.authorsCategory)
	meta.Print = o.print
	decision := p.policy.Decide(meta, vis)
	if !decision.Visible && o.ungated {
		decision = p.policy.Layout(meta)
	}
	res.Status, res.Template = decision.Status, decision.Template
	if !decision.Visible {
		slog.Debug("Page blocked by publication policy", "title", page.Title, "visibility", vis)
		return res, nil
	}

	if strings.TrimSpace(page.Body) == "" {
		return res, nil
	}

	f, err := fragment.Parse(page.Body)
	if err != nil {
		return nil, err
	}

	fragment.StripEditAffordances(f)
	fragment.RewriteInternalLinks(f, p.links)
	fragment.RewritePagingLinks(f)
	fragment.RemoveComments(f)
	fragment.StripRedundantHeadings(f)

	p.embedSources(ctx, f, res)

	body, err := f.HTML()
	if err != nil {
		return nil, err
	}
	res.Body = body
	return res, nil
}

// Title returns the display title without the site suffix.
func (p *Pipeline) Title(page domain.Page) string {
	title := page.DisplayTitle
	if title == "" {
		title = page.Title
	}
	if p.titleSuffix != "" {
		title = strings.TrimSuffix(title, p.titleSuffix)
	}
	return strings.TrimSpace(title)
}

func (p *Pipeline) embedSources(ctx context.Context, f *fragment.Fragment, res *Result) {
	if p.resolver == nil || p.embeds == nil {
		return
	}
	anchors := f.ImageAnchors()
	if anchors == nil || anchors.Length() == 0 {
		return
	}

	table, err := p.resolver.Resolve(ctx, f)
	if err != nil {
		slog.Warn("Primary source resolution failed, rendering without embeds", "error", err)
		return
	}
	if len(table) == 0 {
		return
	}

	multiple := anchors.Length() > 1
	anchors.Each(func(_ int, a *goquery.Selection) {
		rec, ok, err := p.embeds.Render(ctx, a, table, multiple)
		if err != nil {
			slog.Warn("Embed render failed, keeping image", "error", err)
			return
		}
		if ok {
			res.Sources = append(res.Sources, rec.EncyclopediaID)
			res.Records = append(res.Records, rec)
		}
	})
}
