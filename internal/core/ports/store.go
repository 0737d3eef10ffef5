package ports

import (
	"context"
	"time"

	"github.com/dkv3/class-site/internal/core/domain"
)

// KeyValueStore is the raw string store behind every persisted key.
// A ttl of zero keeps the value until it is deleted.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Pinger is implemented by backends that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadState tells which case of a Read holds.
type ReadState int

const (
	ReadAbsent ReadState = iota
	ReadPresent
	ReadMalformed
)

func (s ReadState) String() string {
	switch s {
	case ReadPresent:
		return "present"
	case ReadMalformed:
		return "malformed"
	default:
		return "absent"
	}
}

// Read is the result of decoding one stored value: it is present, absent,
// or present but unparseable.
type Read[T any] struct {
	State ReadState
	Value T
	Err   error
}

func Present[T any](v T) Read[T] {
	return Read[T]{State: ReadPresent, Value: v}
}

func Absent[T any]() Read[T] {
	return Read[T]{State: ReadAbsent}
}

func Malformed[T any](err error) Read[T] {
	return Read[T]{State: ReadMalformed, Err: err}
}

// UserDirectory persists the shared user directory. A stored directory that
// cannot be decoded is returned as empty.
type UserDirectory interface {
	List(ctx context.Context) (domain.Directory, error)
	Save(ctx context.Context, dir domain.Directory) error
}

// SessionStore persists the per-client session keys.
type SessionStore interface {
	LoadSession(ctx context.Context, clientID string) (Read[domain.User], error)
	LoadLoggedIn(ctx context.Context, clientID string) (Read[bool], error)
	// SaveSession writes the session record, the login flag and the remember flag.
	SaveSession(ctx context.Context, clientID string, user domain.User, remember bool) error
	// UpdateSession rewrites only the session record.
	UpdateSession(ctx context.Context, clientID string, user domain.User) error
	// ClearSession removes the session record, the login flag and the remember flag.
	ClearSession(ctx context.Context, clientID string) error

	LoadRedirect(ctx context.Context, clientID string) (string, bool, error)
	SaveRedirect(ctx context.Context, clientID, target string) error
	ClearRedirect(ctx context.Context, clientID string) error
}

// AlbumLinkStore persists the admin-curated list of linked photos.
type AlbumLinkStore interface {
	ListLinks(ctx context.Context) ([]domain.LinkedPhoto, error)
	SaveLinks(ctx context.Context, links []domain.LinkedPhoto) error
}
