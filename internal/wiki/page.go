package wiki

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/cache"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

// publishedMarker is the box the Published template renders into the page.
const publishedMarker = "table.published"

type parseResponse struct {
	Parse struct {
		Title        string `json:"title"`
		PageID       int    `json:"pageid"`
		DisplayTitle string `json:"displaytitle"`
		Text         struct {
			Body string `json:"*"`
		} `json:"text"`
		Categories []struct {
			Name string `json:"*"`
		} `json:"categories"`
		Images []string `json:"images"`
	} `json:"parse"`
}

// Parse fetches the rendered body and metadata of a page. The last
// modification time is not part of the parse result; see Page.
func (c *Client) Parse(ctx context.Context, title string) (*domain.Page, error) {
	return cache.Fetch(ctx, c.cache, c.cached("parse:"+title), c.cacheTTL, func(ctx context.Context) (*domain.Page, error) {
		params := url.Values{
			"action": {"parse"},
			"page":   {title},
			"prop":   {"text|categories|images|displaytitle"},
		}

		var resp parseResponse
		if err := c.do(ctx, params, &resp); err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Code == "missingtitle" {
				return nil, apperr.NewNotFound("page", title)
			}
			return nil, err
		}

		page := &domain.Page{
			PageID:       resp.Parse.PageID,
			Title:        resp.Parse.Title,
			DisplayTitle: stripTags(resp.Parse.DisplayTitle),
			Body:         resp.Parse.Text.Body,
			Images:       resp.Parse.Images,
		}
		for _, cat := range resp.Parse.Categories {
			page.Categories = append(page.Categories, strings.ReplaceAll(cat.Name, "_", " "))
		}
		page.Published = page.HasCategory(c.categories.Published) || hasPublishedMarker(page.Body)
		page.PublishedEncyc = page.Published && !page.HasCategory(c.categories.Supplemental)
		return page, nil
	})
}

// Page is Parse plus the timestamp of the latest revision.
func (c *Client) Page(ctx context.Context, title string) (*domain.Page, error) {
	page, err := c.Parse(ctx, title)
	if err != nil {
		return nil, err
	}
	info, err := c.PageInfo(ctx, title)
	if err != nil {
		return nil, err
	}
	page.Modified = info.Modified
	return page, nil
}

// PageStamp is a page reference with the time of its latest revision.
type PageStamp struct {
	PageID   int       `json:"pageid"`
	NS       int       `json:"ns"`
	Title    string    `json:"title"`
	Modified time.Time `json:"modified"`
}

type queryPage struct {
	PageID    int     `json:"pageid"`
	NS        int     `json:"ns"`
	Title     string  `json:"title"`
	Missing   *string `json:"missing"`
	Revisions []struct {
		Timestamp string `json:"timestamp"`
	} `json:"revisions"`
}

func (p queryPage) stamp() PageStamp {
	s := PageStamp{PageID: p.PageID, NS: p.NS, Title: p.Title}
	if len(p.Revisions) > 0 {
		if ts, err := time.Parse(timestampFmt, p.Revisions[0].Timestamp); err == nil {
			s.Modified = ts
		}
	}
	return s
}

// PageInfo returns the page id, canonical title and last revision time.
func (c *Client) PageInfo(ctx context.Context, title string) (*PageStamp, error) {
	return cache.Fetch(ctx, c.cache, c.cached("info:"+title), c.cacheTTL, func(ctx context.Context) (*PageStamp, error) {
		params := url.Values{
			"action": {"query"},
			"prop":   {"info|revisions"},
			"rvprop": {"timestamp"},
			"titles": {title},
		}
		var resp struct {
			Query struct {
				Pages map[string]queryPage `json:"pages"`
			} `json:"query"`
		}
		if err := c.do(ctx, params, &resp); err != nil {
			return nil, err
		}
		if len(resp.Query.Pages) != 1 {
			return nil, apperr.NewNotFound("page", title)
		}
		for _, p := range resp.Query.Pages {
			if p.Missing != nil || p.PageID <= 0 {
				return nil, apperr.NewNotFound("page", title)
			}
			s := p.stamp()
			return &s, nil
		}
		return nil, apperr.NewNotFound("page", title)
	})
}

func hasPublishedMarker(body string) bool {
	if !strings.Contains(body, "published") {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return false
	}
	return doc.Find(publishedMarker).Length() > 0
}

func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
