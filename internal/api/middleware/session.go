package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

// Session restores the client's session once per request and stores it in
// the context under "session". It must run after Client.
func Session(auth ports.AuthService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID, _ := c.Get("client_id").(string)
			if clientID == "" {
				return echo.NewHTTPError(http.StatusInternalServerError, "missing client identity")
			}

			sess, err := auth.Restore(c.Request().Context(), clientID)
			if err != nil {
				log.Error().Err(err).Str("client_id", clientID).Msg("session restore failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
			}

			c.Set("session", sess)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Session, or a logged-out one.
func SessionFrom(c echo.Context) *domain.Session {
	if sess, ok := c.Get("session").(*domain.Session); ok && sess != nil {
		return sess
	}
	clientID, _ := c.Get("client_id").(string)
	return domain.NewSession(clientID)
}
