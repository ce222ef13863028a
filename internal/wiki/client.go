// Package wiki is a read-only client for the MediaWiki action API.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/cache"
	"github.com/DjordjeVuckovic/encyc-front/internal/settings"
	"golang.org/x/time/rate"
)

const (
	serviceName    = "wiki"
	defaultTimeout = 10 * time.Second
	maxLimit       = "5000"
	timestampFmt   = time.RFC3339
)

type Option func(*Client)

type Client struct {
	api        url.URL
	http       *http.Client
	limiter    *rate.Limiter
	categories settings.Categories
	cache      cache.Cache
	keyer      cache.Keyer
	cacheTTL   time.Duration
}

// NewClient builds a client for the api.php endpoint at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	api, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid wiki api url: %w", err)
	}

	c := &Client{
		api:        *api,
		http:       &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		categories: settings.Default().Categories,
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

// WithRateLimit throttles outgoing requests to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
	}
}

func WithCategories(categories settings.Categories) Option {
	return func(c *Client) {
		c.categories = categories
	}
}

func WithCache(store cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.keyer = keyer
		c.cacheTTL = ttl
	}
}

func (c *Client) cached(key string) string {
	return c.keyer.Key(serviceName, key)
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("wiki api error %s: %s", e.Code, e.Info)
}

// do issues a GET against the api endpoint and decodes the JSON response
// into out. MediaWiki reports failures in an "error" member with status 200.
func (c *Client) do(ctx context.Context, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("format", "json")
	reqURL := c.api
	reqURL.RawQuery = params.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(request)
	if err != nil {
		return apperr.NewUnavailable(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.NewUnavailable(serviceName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return apperr.NewUnavailable(serviceName, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apperr.NewMalformed(serviceName, fmt.Errorf("unmarshal response: %w", err))
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.NewMalformed(serviceName, fmt.Errorf("unmarshal response: %w", err))
	}
	return nil
}
