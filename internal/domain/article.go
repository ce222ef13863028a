package domain

import (
	"strings"
	"time"
)

// ArticleDoc is the article record written to the document store by the sync job.
type ArticleDoc struct {
	URLTitle       string    `json:"url_title"`
	Title          string    `json:"title"`
	TitleSort      string    `json:"title_sort"`
	Body           string    `json:"body"`
	Categories     []string  `json:"categories,omitempty"`
	SourceIDs      []string  `json:"source_ids,omitempty"`
	Authors        []string  `json:"authors,omitempty"`
	PrevPage       string    `json:"prev_page,omitempty"`
	NextPage       string    `json:"next_page,omitempty"`
	Published      bool      `json:"published"`
	PublishedEncyc bool      `json:"published_encyc"`
	Modified       time.Time `json:"modified"`
	IndexedAt      time.Time `json:"indexed_at"`
}

// AuthorDoc is the author record written to the document store by the sync job.
type AuthorDoc struct {
	URLTitle  string    `json:"url_title"`
	Title     string    `json:"title"`
	TitleSort string    `json:"title_sort"`
	Body      string    `json:"body"`
	Articles  []string  `json:"articles,omitempty"`
	Modified  time.Time `json:"modified"`
	IndexedAt time.Time `json:"indexed_at"`
}

// TitleSort builds the sort key used for listings: lower-cased, leading
// article words dropped.
func TitleSort(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, prefix := range []string{"the ", "a ", "an "} {
		if rest, ok := strings.CutPrefix(t, prefix); ok && rest != "" {
			return rest
		}
	}
	return t
}

// AuthorTitleSort sorts authors by surname: "Brian Niiya" -> "niiya brian".
func AuthorTitleSort(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	if i := strings.LastIndex(t, " "); i >= 0 {
		return t[i+1:] + " " + t[:i]
	}
	return t
}
