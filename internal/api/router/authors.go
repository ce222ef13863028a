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

// listAuthors godoc
// @Summary List authors
// @Tags authors
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(100)
// @Success 200 {object} pagination.OffsetResult[dto.AuthorSummary]
// @Router /api/authors [get]
func (r *ContentRouter) listAuthors(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	_ = req.Validate()

	res, err := r.storage.List(c.Request().Context(), storage.Authors, req)
	if err != nil {
		return err
	}
	docs, err := decodeItems[domain.AuthorDoc](res.Items)
	if err != nil {
		return err
	}

	items := make([]dto.AuthorSummary, 0, len(docs))
	for _, d := range docs {
		items = append(items, dto.AuthorSummary{Title: d.Title, TitleSort: d.TitleSort, URL: authorURL(d.URLTitle)})
	}
	return c.JSON(http.StatusOK, pagination.NewOffsetResult(items, res.Total, res.Page, res.Size))
}

// getAuthor godoc
// @Summary Get author
// @Tags authors
// @Produce json
// @Param title path string true "URL title"
// @Success 200 {object} dto.Author
// @Failure 404 {object} map[string]string
// @Router /api/authors/{title} [get]
func (r *ContentRouter) getAuthor(c echo.Context) error {
	title := titleParam(c, "title")

	var doc domain.AuthorDoc
	if err := r.getByTitle(c.Request().Context(), storage.Authors, title, &doc); err != nil {
		return err
	}

	out := dto.Author{
		URLTitle:    doc.URLTitle,
		URL:         authorURL(doc.URLTitle),
		AbsoluteURL: pagePath(doc.URLTitle),
		Title:       doc.Title,
		TitleSort:   doc.TitleSort,
		Body:        doc.Body,
		Modified:    doc.Modified,
		Articles:    make([]dto.AuthorArticle, 0, len(doc.Articles)),
	}
	for _, a := range doc.Articles {
		out.Articles = append(out.Articles, dto.AuthorArticle{Title: a, URL: articleURL(a)})
	}
	return c.JSON(http.StatusOK, out)
}
