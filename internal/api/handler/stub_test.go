package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dkv3/class-site/internal/api/view"
	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, sess *domain.Session, handle, password string, remember bool) (*ports.LoginResult, error)
	registerFn func(ctx context.Context, sess *domain.Session, in ports.RegisterInput) (*domain.User, error)
	logoutFn   func(ctx context.Context, sess *domain.Session, confirmed bool) (*ports.LogoutResult, error)
	fixRoleFn  func(ctx context.Context, sess *domain.Session, username, role string) (*domain.Notification, error)
	users      []domain.User
	debug      *ports.DebugInfo
}

func (s *stubAuthService) Restore(_ context.Context, clientID string) (*domain.Session, error) {
	return domain.NewSession(clientID), nil
}

func (s *stubAuthService) Login(ctx context.Context, sess *domain.Session, handle, password string, remember bool) (*ports.LoginResult, error) {
	return s.loginFn(ctx, sess, handle, password, remember)
}

func (s *stubAuthService) Register(ctx context.Context, sess *domain.Session, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, sess, in)
}

func (s *stubAuthService) Logout(ctx context.Context, sess *domain.Session, confirmed bool) (*ports.LogoutResult, error) {
	return s.logoutFn(ctx, sess, confirmed)
}

func (s *stubAuthService) FixRole(ctx context.Context, sess *domain.Session, username, role string) (*domain.Notification, error) {
	return s.fixRoleFn(ctx, sess, username, role)
}

func (s *stubAuthService) SeedDefaults(context.Context) error { return nil }

func (s *stubAuthService) ListUsers(context.Context) ([]domain.User, error) { return s.users, nil }

func (s *stubAuthService) Debug(context.Context, *domain.Session) (*ports.DebugInfo, error) {
	return s.debug, nil
}

func (s *stubAuthService) RememberRedirect(context.Context, *domain.Session, string) error { return nil }

type stubAlbumService struct {
	photos []domain.Photo
	links  []domain.LinkedPhoto
	addFn  func(ctx context.Context, sess *domain.Session, link, title string) (*domain.LinkedPhoto, error)
}

func (s *stubAlbumService) ListPhotos(context.Context) ([]domain.Photo, error) { return s.photos, nil }

func (s *stubAlbumService) ListLinked(context.Context) ([]domain.LinkedPhoto, error) {
	return s.links, nil
}

func (s *stubAlbumService) AddLinked(ctx context.Context, sess *domain.Session, link, title string) (*domain.LinkedPhoto, error) {
	return s.addFn(ctx, sess, link, title)
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	r, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	e.Renderer = r
	return e
}

// newContext builds a request context carrying sess.
func newContext(e *echo.Echo, method, target, contentType, body string, sess *domain.Session) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("client_id", sess.ClientID)
	c.Set("session", sess)
	return c, rec
}

func signedIn(username string, role domain.Role) *domain.Session {
	sess := domain.NewSession("c1")
	sess.SignIn(domain.User{ID: 1, Name: username, Username: username, Role: domain.SomeRole(role)})
	return sess
}
