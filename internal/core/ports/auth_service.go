package ports

import (
	"context"
	"time"

	"github.com/dkv3/class-site/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name       string
	Email      string
	Username   string
	Password   string
	Role       string // empty = student
	ClassLabel string // empty = default class
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User domain.User
	// Redirect is the page the client asked for before logging in, if any.
	Redirect string
}

// LogoutResult tells the client where to go after logging out.
type LogoutResult struct {
	Redirect     string
	Delay        time.Duration
	Notification domain.Notification
}

// DebugInfo is a snapshot of the auth state for development.
type DebugInfo struct {
	CurrentUser *domain.User  `json:"current_user"`
	Role        domain.Role   `json:"role"`
	LoggedIn    bool          `json:"logged_in"`
	Users       []domain.User `json:"users"`
}

type AuthService interface {
	// Restore rebuilds the session of clientID and reconciles its role.
	Restore(ctx context.Context, clientID string) (*domain.Session, error)
	Login(ctx context.Context, sess *domain.Session, handle, password string, remember bool) (*LoginResult, error)
	Register(ctx context.Context, sess *domain.Session, in RegisterInput) (*domain.User, error)
	Logout(ctx context.Context, sess *domain.Session, confirmed bool) (*LogoutResult, error)
	FixRole(ctx context.Context, sess *domain.Session, username, role string) (*domain.Notification, error)
	SeedDefaults(ctx context.Context) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	Debug(ctx context.Context, sess *domain.Session) (*DebugInfo, error)
	// RememberRedirect stores the page to return to after the next login.
	RememberRedirect(ctx context.Context, sess *domain.Session, target string) error
}
