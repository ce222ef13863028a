package dto

import "time"

type AuthorSummary struct {
	Title     string `json:"title"`
	TitleSort string `json:"title_sort"`
	URL       string `json:"url"`
}

type AuthorArticle struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Author struct {
	URLTitle    string          `json:"url_title"`
	URL         string          `json:"url"`
	AbsoluteURL string          `json:"absolute_url"`
	Title       string          `json:"title"`
	TitleSort   string          `json:"title_sort"`
	Body        string          `json:"body"`
	Modified    time.Time       `json:"modified"`
	Articles    []AuthorArticle `json:"articles"`
}
