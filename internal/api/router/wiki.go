package router

import (
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/policy"
	"github.com/DjordjeVuckovic/encyc-front/internal/transform"
	"github.com/labstack/echo/v4"
)

// livePage godoc
// @Summary Render a wiki page
// @Description Fetches the page from the wiki and returns the transformed body. Requests arriving through the public proxy only see published pages.
// @Tags wiki
// @Produce json
// @Param title path string true "URL title"
// @Param print query bool false "Use the print template"
// @Success 200 {object} transform.Result
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /wiki/{title} [get]
func (r *ContentRouter) livePage(c echo.Context) error {
	ctx := c.Request().Context()
	title := strings.ReplaceAll(titleParam(c, "title"), "_", " ")

	page, err := r.pages.Page(ctx, title)
	if err != nil {
		return err
	}

	var opts []transform.Option
	if c.QueryParam("print") == "true" {
		opts = append(opts, transform.Print())
	}
	res, err := r.transformer.Transform(ctx, *page, policy.VisibilityFromRequest(c.Request()), opts...)
	if err != nil {
		return err
	}
	if res.Status == policy.StatusUnpublished {
		return apperr.NewPolicyBlocked(title)
	}
	return c.JSON(http.StatusOK, res)
}
