package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

// UserHandler serves the admin views of the user directory.
type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type fixRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type fixRoleResponse struct {
	Username     string              `json:"username"`
	Role         string              `json:"role"`
	Notification domain.Notification `json:"notification"`
}

type listUsersResponse struct {
	Items []domain.User `json:"items"`
	Total int           `json:"total"`
}

// List returns every registered user without credentials.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Items: users, Total: len(users)})
}

// FixRole sets the role of a user.
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        username  path      string          true  "Username"
// @Param        body      body      fixRoleRequest  true  "New role"
// @Success      200       {object}  fixRoleResponse
// @Failure      400       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/users/{username}/role [patch]
func (h *UserHandler) FixRole(c echo.Context) error {
	var req fixRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	username := c.Param("username")
	note, err := h.authService.FixRole(c.Request().Context(), ctxSession(c), username, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fixRoleResponse{Username: username, Role: req.Role, Notification: *note})
}

// Debug dumps the auth state. Registered in development only.
//
// @Summary      Auth debug snapshot
// @Tags         debug
// @Produce      json
// @Success      200  {object}  ports.DebugInfo
// @Router       /api/debug [get]
func (h *UserHandler) Debug(c echo.Context) error {
	info, err := h.authService.Debug(c.Request().Context(), ctxSession(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}
