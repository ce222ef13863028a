package dto

import (
	"time"
)

type ArticleSummary struct {
	Title     string    `json:"title"`
	URLTitle  string    `json:"url_title"`
	TitleSort string    `json:"title_sort"`
	Modified  time.Time `json:"modified"`
	URL       string    `json:"url" swaggertype:"string" format:"string"`
}

type Article struct {
	URLTitle       string    `json:"url_title"`
	URL            string    `json:"url"`
	AbsoluteURL    string    `json:"absolute_url"`
	Title          string    `json:"title"`
	TitleSort      string    `json:"title_sort"`
	Body           string    `json:"body"`
	PublishedEncyc bool      `json:"published_encyc"`
	Modified       time.Time `json:"modified"`
	// Links to neighbouring articles in listing order; empty at either end.
	PrevPage   string   `json:"prev_page,omitempty"`
	NextPage   string   `json:"next_page,omitempty"`
	Categories []string `json:"categories"`
	Sources    []string `json:"sources"`
	Authors    []string `json:"authors"`
}
