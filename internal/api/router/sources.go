package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/DjordjeVuckovic/encyc-front/internal/domain"
	"github.com/DjordjeVuckovic/encyc-front/internal/dto"
	"github.com/DjordjeVuckovic/encyc-front/internal/embed"
	"github.com/DjordjeVuckovic/encyc-front/internal/storage"
	"github.com/labstack/echo/v4"
)

// getSource godoc
// @Summary Get primary source
// @Description Returns a primary source record from the index, or from the metadata service when it is not indexed
// @Tags sources
// @Produce json
// @Param id path string true "Encyclopedia id"
// @Success 200 {object} dto.Source
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/sources/{id} [get]
func (r *ContentRouter) getSource(c echo.Context) error {
	ctx := c.Request().Context()
	id := titleParam(c, "id")

	var rec domain.PrimarySource
	err := r.storage.Get(ctx, storage.Sources, id, &rec)
	if apperr.IsNotFound(err) && r.sources != nil {
		var live *domain.PrimarySource
		live, err = r.sources.Source(ctx, id)
		if err == nil {
			rec = *live
		}
	}
	if err != nil {
		return err
	}

	out := dto.Source{
		PrimarySource: rec,
		URL:           sourceURL(rec.EncyclopediaID),
		AbsoluteURL:   strings.TrimSuffix(r.sourcesPath, "/") + "/" + url.PathEscape(rec.EncyclopediaID) + "/",
	}
	out.RTMPStreamer, out.StreamingPath = embed.SplitStreamingURL(rec.StreamingURL, r.streamingPrefix)
	return c.JSON(http.StatusOK, out)
}
