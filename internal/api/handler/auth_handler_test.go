package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

func TestAuthHandler_Me(t *testing.T) {
	e := newEcho(t)
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newContext(e, http.MethodGet, "/api/auth/me", "", "", domain.NewSession("c1"))
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["logged_in"] != false || resp["user"] != nil {
		t.Fatalf("unexpected logged-out payload: %+v", resp)
	}

	c, rec = newContext(e, http.MethodGet, "/api/auth/me", "", "", signedIn("admin", domain.RoleAdmin))
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["logged_in"] != true || resp["role"] != "admin" {
		t.Fatalf("unexpected logged-in payload: %+v", resp)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, sess *domain.Session, handle, password string, remember bool) (*ports.LoginResult, error) {
			if handle != "admin" || password != "dkv123" || !remember {
				t.Fatalf("unexpected args: %s %s %v", handle, password, remember)
			}
			sess.SignIn(domain.User{Username: "admin", Role: domain.SomeRole(domain.RoleAdmin)})
			return &ports.LoginResult{User: *sess.User, Redirect: "/album"}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"username":"admin","password":"dkv123","remember":true}`
	c, rec := newContext(e, http.MethodPost, "/api/auth/login", echo.MIMEApplicationJSON, body, domain.NewSession("c1"))
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Role != domain.RoleAdmin || resp.Redirect != "/album" || resp.User.Username != "admin" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	e := newEcho(t)
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(e, http.MethodPost, "/api/auth/login", echo.MIMEApplicationJSON, `{"username":"admin"}`, domain.NewSession("c1"))
	err := h.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		loginFn: func(context.Context, *domain.Session, string, string, bool) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(e, http.MethodPost, "/api/auth/login", echo.MIMEApplicationJSON, `{"username":"admin","password":"x"}`, domain.NewSession("c1"))
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_LoginForm(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		result   *ports.LoginResult
		err      error
		location string
	}{
		{"stored redirect wins", "username=siswa&password=siswa123&next=%2Fother", &ports.LoginResult{Redirect: "/album"}, nil, "/album"},
		{"next used without stored redirect", "username=siswa&password=siswa123&next=%2Falbum", &ports.LoginResult{}, nil, "/album"},
		{"external next ignored", "username=siswa&password=siswa123&next=https%3A%2F%2Fevil.example", &ports.LoginResult{}, nil, "/"},
		{"failure returns to form", "username=siswa&password=bad&next=%2Falbum", nil, domain.ErrInvalidCredentials, "/?login=failed&next=%2Falbum"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho(t)
			stub := &stubAuthService{
				loginFn: func(context.Context, *domain.Session, string, string, bool) (*ports.LoginResult, error) {
					return tc.result, tc.err
				},
			}
			h := NewAuthHandler(stub)

			c, rec := newContext(e, http.MethodPost, "/login", echo.MIMEApplicationForm, tc.body, domain.NewSession("c1"))
			if err := h.LoginForm(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d", rec.Code)
			}
			if got := rec.Header().Get(echo.HeaderLocation); got != tc.location {
				t.Fatalf("expected location %q, got %q", tc.location, got)
			}
		})
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		registerFn: func(_ context.Context, sess *domain.Session, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "budi" || in.Email != "budi@dkv3.sch.id" || in.ClassLabel != "X DKV 3" || in.Role != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			u := domain.User{ID: 3, Name: in.Name, Username: in.Username, Email: in.Email, Role: domain.SomeRole(domain.RoleStudent)}
			sess.SignIn(u)
			return &u, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"name":"Budi","email":"budi@dkv3.sch.id","username":"budi","password":"rahasia","kelas":"X DKV 3"}`
	c, rec := newContext(e, http.MethodPost, "/api/auth/register", echo.MIMEApplicationJSON, body, domain.NewSession("c1"))
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "budi" || resp["role"] != "student" || resp["logged_in"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	e := newEcho(t)
	h := NewAuthHandler(&stubAuthService{})

	body := `{"name":"Budi","email":"not-an-email","username":"budi","password":"rahasia"}`
	c, _ := newContext(e, http.MethodPost, "/api/auth/register", echo.MIMEApplicationJSON, body, domain.NewSession("c1"))
	err := h.Register(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		registerFn: func(context.Context, *domain.Session, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	h := NewAuthHandler(stub)

	body := `{"name":"Admin","email":"x@dkv3.sch.id","username":"admin","password":"rahasia"}`
	c, _ := newContext(e, http.MethodPost, "/api/auth/register", echo.MIMEApplicationJSON, body, domain.NewSession("c1"))
	if err := h.Register(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, _ *domain.Session, confirmed bool) (*ports.LogoutResult, error) {
			if !confirmed {
				return nil, domain.ErrConfirmationRequired
			}
			return &ports.LogoutResult{
				Redirect:     "/",
				Delay:        time.Second,
				Notification: domain.Notification{Type: "info", Message: "Anda telah logout!"},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newContext(e, http.MethodPost, "/api/auth/logout", echo.MIMEApplicationJSON, `{}`, signedIn("siswa", domain.RoleStudent))
	if err := h.Logout(c); !errors.Is(err, domain.ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}

	c, rec := newContext(e, http.MethodPost, "/api/auth/logout", echo.MIMEApplicationJSON, `{"confirm":true}`, signedIn("siswa", domain.RoleStudent))
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp logoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Redirect != "/" || resp.DelayMs != 1000 || resp.Notification.Message != "Anda telah logout!" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_LogoutForm(t *testing.T) {
	e := newEcho(t)
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, _ *domain.Session, confirmed bool) (*ports.LogoutResult, error) {
			if !confirmed {
				t.Fatalf("form logout must carry confirmation")
			}
			return &ports.LogoutResult{Redirect: "/", Delay: time.Second}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newContext(e, http.MethodPost, "/logout", echo.MIMEApplicationForm, "confirm=true", signedIn("siswa", domain.RoleStudent))
	if err := h.LogoutForm(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("unexpected redirect: %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestLocalPath(t *testing.T) {
	tests := map[string]string{
		"/album":               "/album",
		"/album?x=1":           "/album?x=1",
		"":                     "/",
		"album":                "/",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"https://evil.example": "/",
	}
	for in, want := range tests {
		if got := localPath(in, "/"); got != want {
			t.Errorf("localPath(%q) = %q, want %q", in, got, want)
		}
	}
}
