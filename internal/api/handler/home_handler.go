package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/api/view"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Page renders the home page with the login status badge.
func (h *HomeHandler) Page(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", view.HomePage{
		Session:       ctxSession(c),
		LoginRequired: c.QueryParam("login") == "required",
		LoginFailed:   c.QueryParam("login") == "failed",
		Next:          localPath(c.QueryParam("next"), ""),
	})
}
