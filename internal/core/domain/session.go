package domain

// Session is the current user context of one client. It is rebuilt at the
// start of every request and passed explicitly into each auth operation.
type Session struct {
	ClientID string
	User     *User
	Role     Role
	LoggedIn bool
}

// NewSession returns a logged-out session for clientID.
func NewSession(clientID string) *Session {
	return &Session{ClientID: clientID}
}

// Username returns the session's username, or "" when logged out.
func (s *Session) Username() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Username
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.LoggedIn && s.Role == RoleAdmin
}

// SignIn fills the session with a copy of u.
func (s *Session) SignIn(u User) {
	rec := u.SessionCopy()
	s.User = &rec
	s.Role = rec.Role.OrStudent()
	s.LoggedIn = true
}

// Clear resets the session to logged out, keeping the client id.
func (s *Session) Clear() {
	s.User = nil
	s.Role = ""
	s.LoggedIn = false
}
