package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dkv3/class-site/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes and renders {"error": "<message>"}. Unexpected
// errors are logged and answered with a generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Username atau password salah!"
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusUnauthorized, "Silakan login terlebih dahulu"
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusConflict, "Username sudah digunakan!"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Email sudah terdaftar!"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User tidak ditemukan"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Akses ditolak"
	case errors.Is(err, domain.ErrConfirmationRequired):
		return http.StatusBadRequest, "Logout harus dikonfirmasi"
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
