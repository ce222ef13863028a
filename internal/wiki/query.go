package wiki

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/DjordjeVuckovic/encyc-front/internal/cache"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
)

// DefaultNamespace is the name given to the main (unnamed) namespace.
const DefaultNamespace = "Default"

type pagesResponse struct {
	Continue map[string]string `json:"continue"`
	Query    struct {
		Pages map[string]queryPage `json:"pages"`
	} `json:"query"`
}

// queryPages runs a generator query, following continuation until the
// result set is exhausted. Pages are sorted by title.
func (c *Client) queryPages(ctx context.Context, params url.Values) ([]PageStamp, error) {
	var pages []PageStamp
	for {
		var resp pagesResponse
		if err := c.do(ctx, cloneValues(params), &resp); err != nil {
			return nil, err
		}
		for _, p := range resp.Query.Pages {
			pages = append(pages, p.stamp())
		}
		if len(resp.Continue) == 0 {
			break
		}
		for k, v := range resp.Continue {
			params.Set(k, v)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Title < pages[j].Title })
	return pages, nil
}

// AllPages lists every page with the timestamp of its latest revision.
func (c *Client) AllPages(ctx context.Context) ([]PageStamp, error) {
	return cache.Fetch(ctx, c.cache, c.cached("allpages"), c.cacheTTL, func(ctx context.Context) ([]PageStamp, error) {
		return c.queryPages(ctx, url.Values{
			"action":    {"query"},
			"generator": {"allpages"},
			"gaplimit":  {maxLimit},
			"prop":      {"revisions"},
			"rvprop":    {"timestamp"},
		})
	})
}

// CategoryMembers lists the pages tagged with category. A nil namespace
// includes every namespace.
func (c *Client) CategoryMembers(ctx context.Context, category string, namespace *int) ([]PageStamp, error) {
	key := "category:" + category
	params := url.Values{
		"action":    {"query"},
		"generator": {"categorymembers"},
		"gcmtitle":  {"Category:" + category},
		"gcmlimit":  {maxLimit},
		"prop":      {"revisions"},
		"rvprop":    {"timestamp"},
	}
	if namespace != nil {
		ns := strconv.Itoa(*namespace)
		params.Set("gcmnamespace", ns)
		key += ":" + ns
	}
	return cache.Fetch(ctx, c.cache, c.cached(key), c.cacheTTL, func(ctx context.Context) ([]PageStamp, error) {
		return c.queryPages(ctx, params)
	})
}

// Namespaces maps namespace ids to their canonical names.
func (c *Client) Namespaces(ctx context.Context) (map[int]string, error) {
	return cache.Fetch(ctx, c.cache, c.cached("namespaces"), c.cacheTTL, func(ctx context.Context) (map[int]string, error) {
		var resp struct {
			Query struct {
				Namespaces map[string]struct {
					ID        int    `json:"id"`
					Canonical string `json:"canonical"`
					Name      string `json:"*"`
				} `json:"namespaces"`
			} `json:"query"`
		}
		params := url.Values{
			"action": {"query"},
			"meta":   {"siteinfo"},
			"siprop": {"namespaces|namespacealiases"},
		}
		if err := c.do(ctx, params, &resp); err != nil {
			return nil, err
		}

		out := make(map[int]string, len(resp.Query.Namespaces))
		for _, ns := range resp.Query.Namespaces {
			name := ns.Canonical
			if name == "" {
				name = ns.Name
			}
			if name == "" {
				name = DefaultNamespace
			}
			out[ns.ID] = name
		}
		return out, nil
	})
}

func (c *Client) namespaceID(ctx context.Context, name string) (int, error) {
	namespaces, err := c.Namespaces(ctx)
	if err != nil {
		return 0, err
	}
	for id, n := range namespaces {
		if n == name {
			return id, nil
		}
	}
	return 0, fmt.Errorf("namespace %q not found", name)
}

// PublishedPages lists the published pages of the main namespace with their
// latest revision time.
func (c *Client) PublishedPages(ctx context.Context) ([]PageStamp, error) {
	ns, err := c.namespaceID(ctx, DefaultNamespace)
	if err != nil {
		return nil, err
	}
	published, err := c.CategoryMembers(ctx, c.categories.Published, &ns)
	if err != nil {
		return nil, err
	}
	all, err := c.AllPages(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[int]struct{}, len(published))
	for _, p := range published {
		ids[p.PageID] = struct{}{}
	}
	var pages []PageStamp
	for _, p := range all {
		if _, ok := ids[p.PageID]; ok {
			pages = append(pages, p)
		}
	}
	return pages, nil
}

// Authors returns the author pages as a reconciliation inventory.
func (c *Client) Authors(ctx context.Context) (domain.Inventory, error) {
	members, err := c.CategoryMembers(ctx, c.categories.Authors, nil)
	if err != nil {
		return nil, err
	}
	return inventory(members, domain.KindAuthor), nil
}

// ArticlesLastMod returns the published non-author pages as a
// reconciliation inventory.
func (c *Client) ArticlesLastMod(ctx context.Context) (domain.Inventory, error) {
	published, err := c.PublishedPages(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := c.CategoryMembers(ctx, c.categories.Authors, nil)
	if err != nil {
		return nil, err
	}

	isAuthor := make(map[int]struct{}, len(authors))
	for _, a := range authors {
		isAuthor[a.PageID] = struct{}{}
	}
	articles := make([]PageStamp, 0, len(published))
	for _, p := range published {
		if _, ok := isAuthor[p.PageID]; !ok {
			articles = append(articles, p)
		}
	}
	return inventory(articles, domain.KindArticle), nil
}

// WhatLinksHere returns the titles of pages linking to title.
func (c *Client) WhatLinksHere(ctx context.Context, title string) ([]string, error) {
	return cache.Fetch(ctx, c.cache, c.cached("backlinks:"+title), c.cacheTTL, func(ctx context.Context) ([]string, error) {
		var resp struct {
			Query struct {
				Backlinks []struct {
					Title string `json:"title"`
				} `json:"backlinks"`
			} `json:"query"`
		}
		params := url.Values{
			"action":  {"query"},
			"list":    {"backlinks"},
			"bltitle": {title},
			"bllimit": {maxLimit},
		}
		if err := c.do(ctx, params, &resp); err != nil {
			return nil, err
		}
		titles := make([]string, 0, len(resp.Query.Backlinks))
		for _, b := range resp.Query.Backlinks {
			titles = append(titles, b.Title)
		}
		return titles, nil
	})
}

func inventory(pages []PageStamp, kind domain.InventoryKind) domain.Inventory {
	inv := make(domain.Inventory, 0, len(pages))
	for _, p := range pages {
		inv = append(inv, domain.InventoryEntry{ID: p.Title, Modified: p.Modified, Kind: kind})
	}
	return inv
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
