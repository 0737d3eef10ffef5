package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

// RequireLogin rejects requests without a logged-in session. API calls get
// 401. A rejected page GET is remembered as the page to return to after
// login and redirected to the login form.
func RequireLogin(auth ports.AuthService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if sess.LoggedIn {
				return next(c)
			}

			req := c.Request()
			if req.Method != http.MethodGet {
				return domain.ErrNotLoggedIn
			}

			if strings.HasPrefix(req.URL.Path, "/api/") {
				return domain.ErrNotLoggedIn
			}

			target := req.URL.RequestURI()
			if err := auth.RememberRedirect(req.Context(), sess, target); err != nil {
				log.Warn().Err(err).Str("client_id", sess.ClientID).Msg("failed to store post-login redirect")
			}
			return c.Redirect(http.StatusFound, "/?login=required&next="+url.QueryEscape(target))
		}
	}
}
