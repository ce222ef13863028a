package router

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/labstack/echo/v4"
)

// citePage godoc
// @Summary Cite a page
// @Tags citations
// @Produce json
// @Param title path string true "URL title"
// @Success 200 {object} citation.Citation
// @Failure 404 {object} map[string]string
// @Router /api/cite/page/{title} [get]
func (r *ContentRouter) citePage(c echo.Context) error {
	ctx := c.Request().Context()
	title := titleParam(c, "title")

	var authors []string
	var doc domain.ArticleDoc
	if err := r.getByTitle(ctx, storage.Articles, title, &doc); err == nil {
		authors = doc.Authors
	} else {
		slog.Debug("Citing page without indexed authors", "title", title, "error", err)
	}

	cite, err := r.citer.Page(ctx, strings.ReplaceAll(title, "_", " "), authors)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cite)
}

// citeSource godoc
// @Summary Cite a primary source
// @Tags citations
// @Produce json
// @Param id path string true "Encyclopedia id"
// @Success 200 {object} citation.Citation
// @Failure 404 {object} map[string]string
// @Router /api/cite/source/{id} [get]
func (r *ContentRouter) citeSource(c echo.Context) error {
	cite, err := r.citer.Source(c.Request().Context(), titleParam(c, "id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cite)
}
