package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
	Remember bool   `json:"remember" form:"remember"`
	Next     string `json:"-"        form:"next"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty"`
	Kelas    string `json:"kelas,omitempty" validate:"max=32"`
}

type logoutRequest struct {
	Confirm bool `json:"confirm" form:"confirm"`
}

type sessionResponse struct {
	LoggedIn bool         `json:"logged_in"`
	User     *domain.User `json:"user,omitempty"`
	Role     domain.Role  `json:"role,omitempty"`
}

type loginResponse struct {
	User     domain.User `json:"user"`
	Role     domain.Role `json:"role"`
	Redirect string      `json:"redirect,omitempty"`
}

type logoutResponse struct {
	Redirect     string              `json:"redirect"`
	DelayMs      int64               `json:"delay_ms"`
	Notification domain.Notification `json:"notification"`
}

// Me returns the current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess := ctxSession(c)
	return c.JSON(http.StatusOK, sessionResponse{
		LoggedIn: sess.LoggedIn,
		User:     sess.User,
		Role:     sess.Role,
	})
}

// Login authenticates a user by username or email.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess := ctxSession(c)
	res, err := h.authService.Login(c.Request().Context(), sess, req.Username, req.Password, req.Remember)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{User: res.User, Role: sess.Role, Redirect: res.Redirect})
}

// LoginForm handles the login form of the home page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	sess := ctxSession(c)
	res, err := h.authService.Login(c.Request().Context(), sess, req.Username, req.Password, req.Remember)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		q := url.Values{"login": {"failed"}}
		if next := localPath(req.Next, ""); next != "" {
			q.Set("next", next)
		}
		return c.Redirect(http.StatusSeeOther, "/?"+q.Encode())
	}
	if err != nil {
		return err
	}

	target := res.Redirect
	if target == "" {
		target = req.Next
	}
	return c.Redirect(http.StatusSeeOther, localPath(target, "/"))
}

// Register creates a new account and logs the client in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess := ctxSession(c)
	user, err := h.authService.Register(c.Request().Context(), sess, ports.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		ClassLabel: req.Kelas,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, sessionResponse{LoggedIn: sess.LoggedIn, User: user, Role: sess.Role})
}

// Logout ends the session. The client must confirm.
//
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      logoutRequest  true  "Confirmation"
// @Success      200   {object}  logoutResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Logout(c.Request().Context(), ctxSession(c), req.Confirm)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, logoutResponse{
		Redirect:     res.Redirect,
		DelayMs:      res.Delay.Milliseconds(),
		Notification: res.Notification,
	})
}

// LogoutForm handles the logout button of the navigation bar.
func (h *AuthHandler) LogoutForm(c echo.Context) error {
	var req logoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Logout(c.Request().Context(), ctxSession(c), req.Confirm)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, res.Redirect)
}
