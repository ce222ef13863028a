package router

import (
	"net/http"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/dto"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/DjordjeVuckovic/encyc-front/pkg/pagination"
	"github.com/labstack/echo/v4"
)

// listArticles godoc
// @Summary List articles
// @Description Lists indexed articles ordered by sort title
// @Tags articles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(100)
// @Success 200 {object} pagination.OffsetResult[dto.ArticleSummary]
// @Failure 400 {object} map[string]string
// @Router /api/articles [get]
func (r *ContentRouter) listArticles(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	_ = req.Validate()

	res, err := r.storage.List(c.Request().Context(), storage.Articles, req)
	if err != nil {
		return err
	}
	docs, err := decodeItems[domain.ArticleDoc](res.Items)
	if err != nil {
		return err
	}

	items := make([]dto.ArticleSummary, 0, len(docs))
	for _, d := range docs {
		items = append(items, dto.ArticleSummary{
			Title:     d.Title,
			URLTitle:  d.URLTitle,
			TitleSort: d.TitleSort,
			Modified:  d.Modified,
			URL:       articleURL(d.URLTitle),
		})
	}
	return c.JSON(http.StatusOK, pagination.NewOffsetResult(items, res.Total, res.Page, res.Size))
}

// getArticle godoc
// @Summary Get article
// @Description Returns an indexed article. Author titles redirect to the author resource.
// @Tags articles
// @Produce json
// @Param title path string true "URL title"
// @Success 200 {object} dto.Article
// @Success 302
// @Failure 404 {object} map[string]string
// @Router /api/articles/{title} [get]
func (r *ContentRouter) getArticle(c echo.Context) error {
	ctx := c.Request().Context()
	title := titleParam(c, "title")

	var doc domain.ArticleDoc
	err := r.getByTitle(ctx, storage.Articles, title, &doc)
	if apperr.IsNotFound(err) {
		var author domain.AuthorDoc
		if r.getByTitle(ctx, storage.Authors, title, &author) == nil {
			return c.Redirect(http.StatusFound, authorURL(author.URLTitle))
		}
		return apperr.NewNotFound("article", title)
	}
	if err != nil {
		return err
	}
	if !doc.PublishedEncyc {
		return apperr.NewNotFound("article", title)
	}

	out := dto.Article{
		URLTitle:       doc.URLTitle,
		URL:            articleURL(doc.URLTitle),
		AbsoluteURL:    pagePath(doc.URLTitle),
		Title:          doc.Title,
		TitleSort:      doc.TitleSort,
		Body:           doc.Body,
		PublishedEncyc: doc.PublishedEncyc,
		Modified:       doc.Modified,
		Categories:     nonNil(doc.Categories),
		Sources:        make([]string, 0, len(doc.SourceIDs)),
		Authors:        make([]string, 0, len(doc.Authors)),
	}
	if doc.PrevPage != "" {
		out.PrevPage = articleURL(doc.PrevPage)
	}
	if doc.NextPage != "" {
		out.NextPage = articleURL(doc.NextPage)
	}
	for _, id := range doc.SourceIDs {
		out.Sources = append(out.Sources, sourceURL(id))
	}
	for _, a := range doc.Authors {
		out.Authors = append(out.Authors, authorURL(a))
	}
	return c.JSON(http.StatusOK, out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
