package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

const (
	DefaultSessionTTL  = 24 * time.Hour
	DefaultRememberTTL = 30 * 24 * time.Hour
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore keeps the per-client session keys. Sessions saved with the
// remember flag live for rememberTTL, all others for sessionTTL.
type SessionStore struct {
	kv          ports.KeyValueStore
	sessionTTL  time.Duration
	rememberTTL time.Duration
}

func NewSessionStore(kv ports.KeyValueStore, sessionTTL, rememberTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if rememberTTL <= 0 {
		rememberTTL = DefaultRememberTTL
	}
	return &SessionStore{kv: kv, sessionTTL: sessionTTL, rememberTTL: rememberTTL}
}

func (s *SessionStore) LoadSession(ctx context.Context, clientID string) (ports.Read[domain.User], error) {
	raw, ok, err := s.kv.Get(ctx, ClientKey(clientID, KeyCurrentUser))
	if err != nil {
		return ports.Read[domain.User]{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return ports.Absent[domain.User](), nil
	}

	var u *domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return ports.Malformed[domain.User](err), nil
	}
	// A null record or one without a username names nobody: not logged in.
	if u == nil || u.Username == "" {
		return ports.Absent[domain.User](), nil
	}
	return ports.Present(*u), nil
}

func (s *SessionStore) LoadLoggedIn(ctx context.Context, clientID string) (ports.Read[bool], error) {
	raw, ok, err := s.kv.Get(ctx, ClientKey(clientID, KeyLoggedIn))
	if err != nil {
		return ports.Read[bool]{}, fmt.Errorf("load login flag: %w", err)
	}
	if !ok {
		return ports.Absent[bool](), nil
	}
	v, err := decodeFlag(raw)
	if err != nil {
		return ports.Malformed[bool](err), nil
	}
	return ports.Present(v), nil
}

func (s *SessionStore) SaveSession(ctx context.Context, clientID string, user domain.User, remember bool) error {
	ttl := s.ttl(remember)
	rec, err := json.Marshal(user.SessionCopy())
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	writes := []struct{ key, value string }{
		{KeyCurrentUser, string(rec)},
		{KeyLoggedIn, encodeFlag(true)},
		{KeyRememberMe, encodeFlag(remember)},
	}
	for _, w := range writes {
		if err := s.kv.Set(ctx, ClientKey(clientID, w.key), w.value, ttl); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	return nil
}

// UpdateSession keeps the expiry class the session was saved with.
func (s *SessionStore) UpdateSession(ctx context.Context, clientID string, user domain.User) error {
	remember := false
	raw, ok, err := s.kv.Get(ctx, ClientKey(clientID, KeyRememberMe))
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if ok {
		remember, _ = decodeFlag(raw)
	}

	rec, err := json.Marshal(user.SessionCopy())
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, ClientKey(clientID, KeyCurrentUser), string(rec), s.ttl(remember)); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *SessionStore) ClearSession(ctx context.Context, clientID string) error {
	err := s.kv.Delete(ctx,
		ClientKey(clientID, KeyCurrentUser),
		ClientKey(clientID, KeyLoggedIn),
		ClientKey(clientID, KeyRememberMe),
	)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) LoadRedirect(ctx context.Context, clientID string) (string, bool, error) {
	raw, ok, err := s.kv.Get(ctx, ClientKey(clientID, KeyRedirect))
	if err != nil || !ok {
		return "", false, err
	}
	return raw, raw != "", nil
}

func (s *SessionStore) SaveRedirect(ctx context.Context, clientID, target string) error {
	return s.kv.Set(ctx, ClientKey(clientID, KeyRedirect), target, s.sessionTTL)
}

func (s *SessionStore) ClearRedirect(ctx context.Context, clientID string) error {
	return s.kv.Delete(ctx, ClientKey(clientID, KeyRedirect))
}

func (s *SessionStore) ttl(remember bool) time.Duration {
	if remember {
		return s.rememberTTL
	}
	return s.sessionTTL
}

// encodeFlag writes a flag the way the site always has: a JSON string.
func encodeFlag(v bool) string {
	if v {
		return `"true"`
	}
	return `"false"`
}

// decodeFlag reports whether raw is affirmatively true: the JSON string
// "true" or the JSON boolean true. Any other JSON value is false; only text
// that is not JSON at all is an error.
func decodeFlag(raw string) (bool, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return t == "true", nil
	}
	return false, nil
}
