package domain

import (
	"strings"
	"time"
)

const PublishedCategory = "Published"

// Page is a wiki page as returned by the parse API. It is fetched per request
// or per sync run and only ever transformed in memory.
type Page struct {
	PageID       int       `json:"pageid"`
	Title        string    `json:"title"`
	DisplayTitle string    `json:"displaytitle"`
	Body         string    `json:"body"`
	Categories   []string  `json:"categories"`
	Images       []string  `json:"images"`
	Modified     time.Time `json:"modified"`
	// Published is set when the page carries the published marker category
	// or the wiki reports the page as published.
	Published bool `json:"published"`
	// PublishedEncyc is false for pages that are published but not part of
	// the encyclopedia proper (e.g. supplemental material).
	PublishedEncyc bool `json:"published_encyc"`
}

// HasCategory reports whether the page carries the category, ignoring case
// and the MediaWiki space/underscore ambiguity.
func (p Page) HasCategory(name string) bool {
	want := NormalizeTitle(name)
	for _, c := range p.Categories {
		if NormalizeTitle(c) == want {
			return true
		}
	}
	return false
}

// NormalizeTitle maps a url title to its canonical form for comparisons.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(title, "_", " ")))
}
