package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkv3/class-site/internal/core/domain"
	"github.com/dkv3/class-site/internal/core/ports"
)

const logoutDelay = time.Second

var _ ports.AuthService = (*AuthService)(nil)

// AuthOptions tunes an AuthService. Zero values select the defaults.
type AuthOptions struct {
	BcryptCost       int
	AllowAdminSignup bool
	Metrics          Metrics
	Activity         ports.ActivityRecorder
}

// AuthService implements session restore, login, registration, logout and
// role administration on top of the key/value stores.
type AuthService struct {
	users    ports.UserDirectory
	sessions ports.SessionStore
	activity ports.ActivityRecorder
	metrics  Metrics
	log      zerolog.Logger

	cost             int
	allowAdminSignup bool
	now              func() time.Time
}

func NewAuthService(users ports.UserDirectory, sessions ports.SessionStore, log zerolog.Logger, opts AuthOptions) *AuthService {
	s := &AuthService{
		users:            users,
		sessions:         sessions,
		activity:         opts.Activity,
		metrics:          opts.Metrics,
		log:              log,
		cost:             opts.BcryptCost,
		allowAdminSignup: opts.AllowAdminSignup,
		now:              time.Now,
	}
	if s.cost < bcrypt.MinCost || s.cost > bcrypt.MaxCost {
		s.cost = bcrypt.DefaultCost
	}
	if s.activity == nil {
		s.activity = nopRecorder{}
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	return s
}

// Restore loads the session of clientID and reconciles its cached role with
// the user directory. Unparseable session keys are torn down.
func (s *AuthService) Restore(ctx context.Context, clientID string) (*domain.Session, error) {
	sess := domain.NewSession(clientID)

	rec, err := s.sessions.LoadSession(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	flag, err := s.sessions.LoadLoggedIn(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	if rec.State == ports.ReadMalformed || flag.State == ports.ReadMalformed {
		s.log.Warn().
			Str("client_id", clientID).
			Str("session", rec.State.String()).
			Str("logged_in", flag.State.String()).
			Msg("malformed session state, clearing")
		if err := s.sessions.ClearSession(ctx, clientID); err != nil {
			return nil, fmt.Errorf("restore session: teardown: %w", err)
		}
		s.metrics.SessionRestored(OutcomeTeardown)
		s.activity.Record(s.event(clientID, rec.Value.Username, domain.ActionSessionTeardown, ""))
		return sess, nil
	}

	if rec.State != ports.ReadPresent || flag.State != ports.ReadPresent || !flag.Value {
		s.metrics.SessionRestored(OutcomeLoggedOut)
		return sess, nil
	}

	user := rec.Value
	dir, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	role, repaired := ResolveRole(user.Role, dir.FindByUsername(user.Username))
	if repaired {
		old := user.Role
		user.Role = domain.SomeRole(role)
		if err := s.sessions.UpdateSession(ctx, clientID, user); err != nil {
			return nil, fmt.Errorf("restore session: repair: %w", err)
		}
		prev, _ := old.Get()
		s.log.Info().
			Str("client_id", clientID).
			Str("username", user.Username).
			Str("from", string(prev)).
			Str("to", string(role)).
			Msg("session role repaired")
		s.metrics.SessionRestored(OutcomeRepaired)
		s.activity.Record(s.event(clientID, user.Username, domain.ActionSessionRepaired, string(prev)+"->"+string(role)))
	} else {
		s.metrics.SessionRestored(OutcomeConsistent)
	}

	sess.SignIn(user)
	return sess, nil
}

// Login authenticates handle (username or email) and persists the session.
func (s *AuthService) Login(ctx context.Context, sess *domain.Session, handle, password string, remember bool) (*ports.LoginResult, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || password == "" {
		s.metrics.AuthAttempt("login", "invalid")
		return nil, domain.ErrInvalidCredentials
	}

	dir, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	idx := dir.FindForLogin(handle, func(stored string) bool {
		return verifyPassword(stored, password)
	})
	if idx < 0 {
		s.metrics.AuthAttempt("login", "failure")
		return nil, domain.ErrInvalidCredentials
	}

	if !isHashed(dir[idx].Password) {
		s.upgradeCredential(ctx, dir, idx, password)
	}

	user := dir[idx]
	if err := s.sessions.SaveSession(ctx, sess.ClientID, user.SessionCopy(), remember); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	sess.SignIn(user)

	res := &ports.LoginResult{User: *sess.User}
	target, ok, err := s.sessions.LoadRedirect(ctx, sess.ClientID)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", sess.ClientID).Msg("failed to load post-login redirect")
	} else if ok {
		res.Redirect = target
		if err := s.sessions.ClearRedirect(ctx, sess.ClientID); err != nil {
			s.log.Warn().Err(err).Str("client_id", sess.ClientID).Msg("failed to clear post-login redirect")
		}
	}

	s.metrics.AuthAttempt("login", "success")
	s.activity.Record(s.event(sess.ClientID, user.Username, domain.ActionLogin, string(sess.Role)))
	s.log.Info().Str("username", user.Username).Str("role", string(sess.Role)).Msg("login successful")
	return res, nil
}

// upgradeCredential replaces a plaintext credential with its hash. Failure
// only costs the upgrade; the login itself already succeeded.
func (s *AuthService) upgradeCredential(ctx context.Context, dir domain.Directory, idx int, password string) {
	hash, err := hashPassword(password, s.cost)
	if err != nil {
		s.log.Warn().Err(err).Str("username", dir[idx].Username).Msg("failed to hash legacy credential")
		return
	}
	dir[idx].Password = hash
	if err := s.users.Save(ctx, dir); err != nil {
		s.log.Warn().Err(err).Str("username", dir[idx].Username).Msg("failed to persist upgraded credential")
		return
	}
	s.log.Info().Str("username", dir[idx].Username).Msg("legacy credential upgraded")
}

// Register appends a new user to the directory and logs the client in.
func (s *AuthService) Register(ctx context.Context, sess *domain.Session, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		s.metrics.AuthAttempt("register", "invalid")
		return nil, fmt.Errorf("register: %w: username, email and password are required", domain.ErrInvalidInput)
	}

	role := domain.RoleStudent
	if in.Role != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			s.metrics.AuthAttempt("register", "invalid")
			return nil, fmt.Errorf("register: %w", err)
		}
		role = r
	}
	if role == domain.RoleAdmin && !s.allowAdminSignup {
		s.metrics.AuthAttempt("register", "forbidden")
		return nil, fmt.Errorf("register: admin signup disabled: %w", domain.ErrForbidden)
	}

	dir, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if dir.UsernameTaken(in.Username) {
		s.metrics.AuthAttempt("register", "conflict")
		return nil, domain.ErrUsernameTaken
	}
	if dir.EmailTaken(in.Email) {
		s.metrics.AuthAttempt("register", "conflict")
		return nil, domain.ErrEmailTaken
	}

	hash, err := hashPassword(in.Password, s.cost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	class := in.ClassLabel
	if class == "" {
		class = domain.DefaultClassLabel
	}
	now := s.now().UTC()
	user := domain.User{
		ID:         dir.NextID(now),
		Name:       in.Name,
		Email:      in.Email,
		Username:   in.Username,
		Password:   hash,
		Role:       domain.SomeRole(role),
		ClassLabel: class,
		CreatedAt:  now,
		Status:     domain.StatusActive,
	}

	dir = append(dir, user)
	if err := s.users.Save(ctx, dir); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if err := s.sessions.SaveSession(ctx, sess.ClientID, user.SessionCopy(), false); err != nil {
		return nil, fmt.Errorf("register: login: %w", err)
	}
	sess.SignIn(user)

	s.metrics.AuthAttempt("register", "success")
	s.activity.Record(s.event(sess.ClientID, user.Username, domain.ActionRegister, string(role)))
	s.log.Info().Str("username", user.Username).Str("role", string(role)).Msg("user registered")

	created := user.SessionCopy()
	return &created, nil
}

// Logout clears the session once the user has confirmed.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session, confirmed bool) (*ports.LogoutResult, error) {
	if !confirmed {
		return nil, domain.ErrConfirmationRequired
	}

	username := sess.Username()
	if err := s.sessions.ClearSession(ctx, sess.ClientID); err != nil {
		return nil, fmt.Errorf("logout: %w", err)
	}
	sess.Clear()

	if username != "" {
		s.activity.Record(s.event(sess.ClientID, username, domain.ActionLogout, ""))
		s.log.Info().Str("username", username).Msg("logout")
	}

	return &ports.LogoutResult{
		Redirect:     "/",
		Delay:        logoutDelay,
		Notification: domain.Notification{Type: "info", Message: "Anda telah logout!"},
	}, nil
}

// FixRole sets the directory role of username. When username is the user of
// sess, the live session and its stored record follow.
func (s *AuthService) FixRole(ctx context.Context, sess *domain.Session, username, role string) (*domain.Notification, error) {
	newRole, err := domain.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("fix role: %w", err)
	}

	dir, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fix role: %w", err)
	}
	idx := dir.IndexOf(username)
	if idx < 0 {
		return nil, fmt.Errorf("fix role: %s: %w", username, domain.ErrUserNotFound)
	}

	dir[idx].Role = domain.SomeRole(newRole)
	if err := s.users.Save(ctx, dir); err != nil {
		return nil, fmt.Errorf("fix role: %w", err)
	}

	if sess != nil && sess.LoggedIn && sess.Username() == username {
		sess.User.Role = domain.SomeRole(newRole)
		sess.Role = newRole
		if err := s.sessions.UpdateSession(ctx, sess.ClientID, *sess.User); err != nil {
			return nil, fmt.Errorf("fix role: update session: %w", err)
		}
	}

	var actor, clientID string
	if sess != nil {
		actor, clientID = sess.Username(), sess.ClientID
	}
	s.metrics.RoleFixed(newRole)
	s.activity.Record(s.event(clientID, username, domain.ActionRoleFix, "by "+actor+": "+string(newRole)))
	s.log.Info().Str("username", username).Str("role", string(newRole)).Str("by", actor).Msg("role updated")

	return &domain.Notification{
		Type:    "success",
		Message: fmt.Sprintf("Role %s diperbarui ke %s", username, newRole),
	}, nil
}

// SeedDefaults writes the built-in accounts when the directory is empty.
func (s *AuthService) SeedDefaults(ctx context.Context) error {
	dir, err := s.users.List(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if len(dir) > 0 {
		return nil
	}

	now := s.now().UTC()
	seeds := []struct {
		id                    int64
		name, email, username string
		password              string
		role                  domain.Role
	}{
		{1, "Admin DKV3", "admin@dkv3.sch.id", "admin", "dkv123", domain.RoleAdmin},
		{2, "Siswa Contoh", "siswa@dkv3.sch.id", "siswa", "siswa123", domain.RoleStudent},
	}
	for _, seed := range seeds {
		hash, err := hashPassword(seed.password, s.cost)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		dir = append(dir, domain.User{
			ID:         seed.id,
			Name:       seed.name,
			Email:      seed.email,
			Username:   seed.username,
			Password:   hash,
			Role:       domain.SomeRole(seed.role),
			ClassLabel: domain.DefaultClassLabel,
			CreatedAt:  now,
			Status:     domain.StatusActive,
		})
	}

	if err := s.users.Save(ctx, dir); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	s.log.Info().Int("count", len(dir)).Msg("default users created")
	return nil
}

// ListUsers returns the directory without credentials.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	dir, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(dir))
	for _, u := range dir {
		out = append(out, u.SessionCopy())
	}
	return out, nil
}

func (s *AuthService) Debug(ctx context.Context, sess *domain.Session) (*ports.DebugInfo, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	info := &ports.DebugInfo{Users: users}
	if sess != nil {
		info.CurrentUser = sess.User
		info.Role = sess.Role
		info.LoggedIn = sess.LoggedIn
	}
	return info, nil
}

func (s *AuthService) RememberRedirect(ctx context.Context, sess *domain.Session, target string) error {
	if target == "" {
		return nil
	}
	if err := s.sessions.SaveRedirect(ctx, sess.ClientID, target); err != nil {
		return fmt.Errorf("save redirect: %w", err)
	}
	return nil
}

func (s *AuthService) event(clientID, username string, action domain.ActivityAction, detail string) domain.ActivityEvent {
	return domain.ActivityEvent{
		Username: username,
		ClientID: clientID,
		Action:   action,
		Detail:   detail,
		At:       s.now().UTC(),
	}
}
