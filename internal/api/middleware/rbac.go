package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/core/domain"
)

// RBAC enforces role-based access control on the restored session.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := SessionFrom(c)
			if !sess.LoggedIn {
				return domain.ErrNotLoggedIn
			}
			if _, ok := allowed[sess.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
