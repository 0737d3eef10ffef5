package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Role is the access level of a registered user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

const (
	StatusActive      = "active"
	DefaultClassLabel = "X DKV 3"
)

var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrUsernameTaken = errors.New("username already taken")
var ErrEmailTaken = errors.New("email already registered")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidRole = errors.New("invalid role")
var ErrForbidden = errors.New("access forbidden")
var ErrNotLoggedIn = errors.New("not logged in")
var ErrConfirmationRequired = errors.New("logout requires confirmation")
var ErrInvalidInput = errors.New("invalid input")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// ParseRole converts raw input into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// OptionalRole is a role that may be missing from a stored record.
// The zero value is None.
type OptionalRole struct {
	role Role
	set  bool
}

// SomeRole wraps r as a present role.
func SomeRole(r Role) OptionalRole {
	return OptionalRole{role: r, set: true}
}

// NoRole returns a missing role.
func NoRole() OptionalRole {
	return OptionalRole{}
}

// Get returns the role and whether it is present.
func (o OptionalRole) Get() (Role, bool) {
	return o.role, o.set
}

// OrStudent returns the role, falling back to student when missing.
func (o OptionalRole) OrStudent() Role {
	if !o.set {
		return RoleStudent
	}
	return o.role
}

// Is reports whether the role is present and equal to r.
func (o OptionalRole) Is(r Role) bool {
	return o.set && o.role == r
}

// IsZero lets encoding/json omit a missing role with the omitzero option.
func (o OptionalRole) IsZero() bool {
	return !o.set
}

func (o OptionalRole) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(string(o.role))
}

// UnmarshalJSON treats null and "" as a missing role.
func (o *OptionalRole) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = NoRole()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role: %w", err)
	}
	if s == "" {
		*o = NoRole()
		return nil
	}
	*o = SomeRole(Role(s))
	return nil
}

// User is one entry of the user directory. The same shape is stored as the
// session record of a logged-in client, minus the credential.
type User struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Username   string       `json:"username"`
	Password   string       `json:"password,omitempty"`
	Role       OptionalRole `json:"role,omitzero"`
	ClassLabel string       `json:"kelas,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	Status     string       `json:"status,omitempty"`
}

// SessionCopy returns the denormalized record kept for a logged-in client.
func (u User) SessionCopy() User {
	u.Password = ""
	return u
}
