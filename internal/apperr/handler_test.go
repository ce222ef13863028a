package apperr_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/encyc-front/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGlobalErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: apperr.NewValidation("bad"), want: http.StatusBadRequest},
		{name: "not found", err: apperr.NewNotFound("page", "X"), want: http.StatusNotFound},
		{name: "policy blocked", err: apperr.NewPolicyBlocked("X"), want: http.StatusForbidden},
		{name: "upstream", err: apperr.NewUnavailable("wiki", errors.New("timeout")), want: http.StatusBadGateway},
		{name: "echo http error", err: echo.NewHTTPError(http.StatusTeapot, "tea"), want: http.StatusTeapot},
		{name: "plain", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	e := echo.New()
	handler := apperr.GlobalErrorHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handler(tt.err, c)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
