// Package sources resolves embedded wiki images against the primary-source
// metadata service.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/cache"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/fragment"
	"github.com/PuerkitoBio/goquery"
)

const (
	serviceName    = "sources"
	defaultTimeout = 5 * time.Second
	idFilter       = "encyclopedia_id__in"
)

// Mode selects how lookup failures are reported by Resolve.
type Mode string

const (
	// Permissive treats an unreachable service or a malformed payload as
	// "no sources found". Primary sources are enrichment, not content.
	Permissive Mode = "permissive"
	// Strict returns the upstream error to the caller.
	Strict Mode = "strict"
)

type Option func(*Client)

type Client struct {
	base     url.URL
	http     *http.Client
	mode     Mode
	cache    cache.Cache
	keyer    cache.Keyer
	cacheTTL time.Duration
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid sources base url: %w", err)
	}

	c := &Client{
		base: *base,
		http: &http.Client{Timeout: defaultTimeout},
		mode: Permissive,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func WithHttpClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func WithMode(mode Mode) Option {
	return func(c *Client) {
		c.mode = mode
	}
}

func WithCache(store cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.keyer = keyer
		c.cacheTTL = ttl
	}
}

type listResponse struct {
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
	Objects *[]domain.PrimarySource `json:"objects"`
}

// CandidateIDs collects the normalized identifiers of every image anchor in
// the fragment, deduplicated, in document order.
func CandidateIDs(f *fragment.Fragment) []string {
	anchors := f.ImageAnchors()
	if anchors == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var ids []string
	anchors.Each(func(_ int, a *goquery.Selection) {
		src, ok := a.Find("img").Attr("src")
		if !ok {
			return
		}
		id := fragment.NormalizeID(fragment.ExtractEncyclopediaID(src))
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	})
	return ids
}

// Resolve returns the primary sources referenced by the fragment's image
// anchors keyed by normalized identifier. A fragment without images yields
// an empty table without contacting the service.
func (c *Client) Resolve(ctx context.Context, f *fragment.Fragment) (map[string]domain.PrimarySource, error) {
	table := make(map[string]domain.PrimarySource)

	ids := CandidateIDs(f)
	if len(ids) == 0 {
		return table, nil
	}

	records, err := c.Lookup(ctx, ids)
	if err != nil {
		if c.mode == Strict {
			return nil, err
		}
		slog.Warn("Primary source lookup failed, continuing without sources", "ids", len(ids), "error", err)
		return table, nil
	}

	for _, rec := range records {
		table[fragment.NormalizeID(rec.EncyclopediaID)] = rec
	}
	return table, nil
}

// Lookup fetches the records for ids in a single request.
func (c *Client) Lookup(ctx context.Context, ids []string) ([]domain.PrimarySource, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	key := c.keyer.Key(serviceName, strings.Join(sorted, ","))
	return cache.Fetch(ctx, c.cache, key, c.cacheTTL, func(ctx context.Context) ([]domain.PrimarySource, error) {
		return c.fetch(ctx, sorted)
	})
}

// Source returns a single record by encyclopedia id.
func (c *Client) Source(ctx context.Context, id string) (*domain.PrimarySource, error) {
	records, err := c.Lookup(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if fragment.NormalizeID(rec.EncyclopediaID) == fragment.NormalizeID(id) {
			return &rec, nil
		}
	}
	return nil, apperr.NewNotFound("source", id)
}

func (c *Client) fetch(ctx context.Context, ids []string) ([]domain.PrimarySource, error) {
	reqURL := c.base.JoinPath("primarysource/")
	reqURL.RawQuery = url.Values{idFilter: ids}.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return nil, apperr.NewUnavailable(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.NewUnavailable(serviceName, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.NewUnavailable(serviceName, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	var parsed listResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperr.NewMalformed(serviceName, fmt.Errorf("unmarshal response: %w", err))
	}
	if parsed.Objects == nil {
		return nil, apperr.NewMalformed(serviceName, fmt.Errorf("response has no object list"))
	}

	slog.Debug("Fetched primary sources", "requested", len(ids), "returned", len(*parsed.Objects))
	return *parsed.Objects, nil
}
