package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/api/middleware"
	"github.com/dkv3/class-site/internal/core/domain"
)

// ctxSession returns the session restored by the Session middleware.
func ctxSession(c echo.Context) *domain.Session {
	return middleware.SessionFrom(c)
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// localPath keeps redirects on this site.
func localPath(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
