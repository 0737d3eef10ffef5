package middleware

import (
	"context"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

type stubAuthService struct {
	restoreFn func(ctx context.Context, clientID string) (*domain.Session, error)
	redirects []string
}

func (s *stubAuthService) Restore(ctx context.Context, clientID string) (*domain.Session, error) {
	return s.restoreFn(ctx, clientID)
}

func (s *stubAuthService) RememberRedirect(_ context.Context, _ *domain.Session, target string) error {
	s.redirects = append(s.redirects, target)
	return nil
}

func (s *stubAuthService) Login(context.Context, *domain.Session, string, string, bool) (*ports.LoginResult, error) {
	return nil, nil
}

func (s *stubAuthService) Register(context.Context, *domain.Session, ports.RegisterInput) (*domain.User, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(context.Context, *domain.Session, bool) (*ports.LogoutResult, error) {
	return nil, nil
}

func (s *stubAuthService) FixRole(context.Context, *domain.Session, string, string) (*domain.Notification, error) {
	return nil, nil
}

func (s *stubAuthService) SeedDefaults(context.Context) error { return nil }

func (s *stubAuthService) ListUsers(context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubAuthService) Debug(context.Context, *domain.Session) (*ports.DebugInfo, error) {
	return nil, nil
}

func loggedIn(role domain.Role) *domain.Session {
	sess := domain.NewSession("c1")
	sess.SignIn(domain.User{Username: "u", Role: domain.SomeRole(role)})
	return sess
}
