package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/fragment"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/PuerkitoBio/goquery"
)

// articleRun holds what article upserts need from the whole inventory:
// neighbour titles in listing order and the set of known authors.
type articleRun struct {
	order   []string
	pos     map[string]int
	authors map[string]string
}

func (ar *articleRun) inventory(src Source) func(ctx context.Context) (domain.Inventory, error) {
	return func(ctx context.Context) (domain.Inventory, error) {
		authors, err := src.Authors(ctx)
		if err != nil {
			return nil, err
		}
		articles, err := src.ArticlesLastMod(ctx)
		if err != nil {
			return nil, err
		}
		ar.prepare(articles, authors)
		return articles, nil
	}
}

func (ar *articleRun) prepare(articles, authors domain.Inventory) {
	ar.order = articles.IDs()
	sort.SliceStable(ar.order, func(i, j int) bool {
		a, b := domain.TitleSort(ar.order[i]), domain.TitleSort(ar.order[j])
		if a != b {
			return a < b
		}
		return ar.order[i] < ar.order[j]
	})
	ar.pos = make(map[string]int, len(ar.order))
	for i, title := range ar.order {
		ar.pos[title] = i
	}

	ar.authors = make(map[string]string, len(authors))
	for _, a := range authors {
		ar.authors[domain.NormalizeTitle(a.ID)] = a.ID
	}
}

// neighbours returns the titles listed before and after title.
func (ar *articleRun) neighbours(title string) (prev, next string) {
	i, ok := ar.pos[title]
	if !ok {
		return "", ""
	}
	if i > 0 {
		prev = ar.order[i-1]
	}
	if i < len(ar.order)-1 {
		next = ar.order[i+1]
	}
	return prev, next
}

// linkedAuthors returns the known authors the body links to, in order of
// first appearance.
func (ar *articleRun) linkedAuthors(body string) []string {
	f, err := fragment.Parse(body)
	if err != nil || f.Root() == nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	f.Root().Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, err := url.Parse(href)
		if err != nil || u.Host != "" {
			return
		}
		title, err := url.PathUnescape(strings.TrimPrefix(u.Path, "/"))
		if err != nil {
			return
		}
		author, ok := ar.authors[domain.NormalizeTitle(title)]
		if ok && !seen[author] {
			seen[author] = true
			out = append(out, author)
		}
	})
	return out
}

func (ar *articleRun) apply(e *Engine) applyFunc {
	return func(ctx context.Context, log *slog.Logger, title string, opts RunOptions, kr *KindReport) error {
		page, err := e.source.Page(ctx, title)
		if err != nil {
			return err
		}
		res, err := e.transform.Transform(ctx, *page, policy.Internal)
		if err != nil {
			return err
		}
		if res.Status == policy.StatusUnpublished {
			log.Info("Not publishable", "title", title)
			kr.NotPublishable = append(kr.NotPublishable, title)
			return nil
		}

		sources := make([]storage.Keyed, 0, len(res.Records))
		seen := make(map[string]bool)
		for _, rec := range res.Records {
			if seen[rec.EncyclopediaID] {
				continue
			}
			seen[rec.EncyclopediaID] = true
			log.Debug("Source", "id", rec.EncyclopediaID)
			sources = append(sources, storage.Keyed{ID: rec.EncyclopediaID, Doc: rec})
		}

		prev, next := ar.neighbours(title)
		doc := domain.ArticleDoc{
			URLTitle:       title,
			Title:          res.Title,
			TitleSort:      domain.TitleSort(res.Title),
			Body:           res.Body,
			Categories:     page.Categories,
			SourceIDs:      res.Sources,
			Authors:        ar.linkedAuthors(res.Body),
			PrevPage:       prev,
			NextPage:       next,
			Published:      page.Published,
			PublishedEncyc: page.PublishedEncyc,
			Modified:       page.Modified,
			IndexedAt:      time.Now().UTC(),
		}

		if opts.DryRun {
			return nil
		}
		if err := e.store.UpsertBulk(ctx, storage.Sources, sources); err != nil {
			return fmt.Errorf("failed to save sources: %w", err)
		}
		if err := e.store.Upsert(ctx, storage.Articles, title, doc); err != nil {
			return err
		}
		kr.Upserted++
		return nil
	}
}
