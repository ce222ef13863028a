// Package policy decides whether a page may be shown to a requester and which
// page layout it is rendered with.
package policy

import (
	"net/http"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
)

// Visibility is the audience of a request.
type Visibility int

const (
	Internal Visibility = iota
	Public
)

func (v Visibility) String() string {
	if v == Public {
		return "public"
	}
	return "internal"
}

// ForwardedForHeader is set by the public reverse proxy. Requests reaching the
// application without it come from the internal network.
const ForwardedForHeader = "X-Forwarded-For"

func VisibilityFromRequest(r *http.Request) Visibility {
	if r == nil {
		return Internal
	}
	if r.Header.Get(ForwardedForHeader) != "" {
		return Public
	}
	return Internal
}

type Status string

const (
	StatusOK          Status = "ok"
	StatusUnpublished Status = "unpublished"
)

type Template string

const (
	TemplateArticle      Template = "article"
	TemplateArticlePrint Template = "article-print"
	TemplateAuthor       Template = "author"
	TemplateUnpublished  Template = "unpublished"
)

// Meta is the page metadata the decision depends on.
type Meta struct {
	Published      bool
	Categories     []string
	PublishedEncyc bool
	Author         bool
	Print          bool
}

// MetaFromPage builds the decision input for a wiki page.
func MetaFromPage(p domain.Page, authorsCategory string) Meta {
	return Meta{
		Published:      p.Published,
		Categories:     p.Categories,
		PublishedEncyc: p.PublishedEncyc,
		Author:         authorsCategory != "" && p.HasCategory(authorsCategory),
	}
}

type Decision struct {
	Visible  bool
	Status   Status
	Template Template
}

type Policy struct {
	ShowUnpublished bool
	// PublishedCategory defaults to domain.PublishedCategory.
	PublishedCategory string
}

func New(showUnpublished bool) *Policy {
	return &Policy{ShowUnpublished: showUnpublished, PublishedCategory: domain.PublishedCategory}
}

// IsPublished reports whether the page carries the published flag or category.
func (p *Policy) IsPublished(m Meta) bool {
	if m.Published {
		return true
	}
	category := p.PublishedCategory
	if category == "" {
		category = domain.PublishedCategory
	}
	want := domain.NormalizeTitle(category)
	for _, c := range m.Categories {
		if domain.NormalizeTitle(c) == want {
			return true
		}
	}
	return false
}

func (p *Policy) Decide(m Meta, vis Visibility) Decision {
	visible := p.IsPublished(m) || (vis == Internal && p.ShowUnpublished)
	if !visible {
		return Decision{Status: StatusUnpublished, Template: TemplateUnpublished}
	}
	return p.Layout(m)
}

// Layout is the visible decision for m: author, print or article template.
func (p *Policy) Layout(m Meta) Decision {
	d := Decision{Visible: true, Status: StatusOK, Template: TemplateArticle}
	switch {
	case m.Author:
		d.Template = TemplateAuthor
	case m.Print:
		d.Template = TemplateArticlePrint
	}
	return d
}
