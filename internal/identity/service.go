package identity

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	pkgauth "github.com/oakline/storefront-backend/pkg/auth"
	"github.com/oakline/storefront-backend/pkg/config"
	"github.com/oakline/storefront-backend/pkg/enums"
	pkgerrors "github.com/oakline/storefront-backend/pkg/errors"
	"github.com/oakline/storefront-backend/pkg/kvstore"
	"github.com/oakline/storefront-backend/pkg/logger"
)

const (
	sessionKey = "storefront_auth_v1"
	usersKey   = "storefront_users_v1"
)

// User is the public projection of an account, without the credential.
type User struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Role  enums.UserRole `json:"role"`
}

// RegisteredUser carries the stored credential. Passwords are kept in clear
// text: this engine has no server boundary of its own, and the storage format
// is part of the observable contract. Any hosted deployment must replace this
// with hashed credentials.
type RegisteredUser struct {
	User
	Password string `json:"password"`
}

// Session holds the single authenticated identity and its bearer token.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Service owns registered accounts and the active session.
type Service struct {
	mu      sync.Mutex
	store   kvstore.Store
	logg    *logger.Logger
	jwtCfg  config.JWTConfig
	users   map[string]RegisteredUser
	session Session
	now     func() time.Time
	lastID  int64
}

// NewService reloads accounts and the session. When no accounts exist and
// seeding is enabled, one demo admin and one demo seller are created.
func NewService(ctx context.Context, store kvstore.Store, logg *logger.Logger, jwtCfg config.JWTConfig, seedDemo bool) *Service {
	s := &Service{
		store:  store,
		logg:   logg,
		jwtCfg: jwtCfg,
		users:  map[string]RegisteredUser{},
		now:    time.Now,
	}

	var persisted map[string]RegisteredUser
	if store.Load(ctx, usersKey, &persisted) && persisted != nil {
		for email, u := range persisted {
			// Accounts written before roles existed repair to customer.
			if !u.Role.IsValid() {
				u.Role = enums.UserRoleCustomer
			}
			s.users[email] = u
		}
	}
	if len(s.users) == 0 && seedDemo {
		s.users["admin@example.com"] = RegisteredUser{
			User:     User{ID: "U-admin", Name: "Admin", Email: "admin@example.com", Role: enums.UserRoleAdmin},
			Password: "admin",
		}
		s.users["seller@example.com"] = RegisteredUser{
			User:     User{ID: "U-seller", Name: "Seller", Email: "seller@example.com", Role: enums.UserRoleSeller},
			Password: "seller",
		}
		s.persistUsers(ctx)
		logg.Info(ctx, "seeded demo accounts")
	}

	var session Session
	if store.Load(ctx, sessionKey, &session) {
		s.session = session
	}

	return s
}

// Register creates an account, installs a session for it and returns the
// public user.
func (s *Service) Register(ctx context.Context, name, email, password string, role enums.UserRole) (User, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	if role == "" {
		role = enums.UserRoleCustomer
	}
	if !role.IsValid() {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown role %q", role))
	}

	normalized := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[normalized]; exists {
		return User{}, pkgerrors.New(pkgerrors.CodeConflict, "account already exists")
	}

	account := RegisteredUser{
		User: User{
			ID:    s.nextUserID(),
			Name:  strings.TrimSpace(name),
			Email: normalized,
			Role:  role,
		},
		Password: password,
	}
	s.users[normalized] = account
	s.persistUsers(ctx)

	if err := s.installSession(ctx, account.User); err != nil {
		return User{}, err
	}
	return account.User, nil
}

// Authenticate verifies credentials and installs a session. An unknown email
// is reported distinctly from a wrong password so callers can offer signup.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return User{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	normalized := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.users[normalized]
	if !exists {
		return User{}, pkgerrors.New(pkgerrors.CodeNoAccount, "no account for this email")
	}
	if account.Password != password {
		return User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.installSession(ctx, account.User); err != nil {
		return User{}, err
	}
	return account.User, nil
}

// Logout clears the session.
func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutLocked(ctx)
}

// CurrentUser returns the session's user, if authenticated.
func (s *Service) CurrentUser(_ context.Context) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.User == nil {
		return User{}, false
	}
	return *s.session.User, true
}

// Token returns the session's bearer token, if any.
func (s *Service) Token(_ context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

// IsAuthenticated reports whether a session token is installed.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// HasUser reports whether the normalized email is registered.
func (s *Service) HasUser(_ context.Context, email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.users[normalizeEmail(email)]
	return exists
}

// ListUsers returns every registered account sorted by email.
func (s *Service) ListUsers(_ context.Context) []RegisteredUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RegisteredUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// SetRole changes an account's role. If the account is the active session, the
// session user and token are refreshed in place.
func (s *Service) SetRole(ctx context.Context, email string, role enums.UserRole) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown role %q", role))
	}

	normalized := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	account, exists := s.users[normalized]
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNoAccount, "no account for this email")
	}
	account.Role = role
	s.users[normalized] = account
	s.persistUsers(ctx)

	if s.session.User != nil && normalizeEmail(s.session.User.Email) == normalized {
		if err := s.installSession(ctx, account.User); err != nil {
			return err
		}
	}
	return nil
}

// DeleteUser removes an account. Deleting the active session's account logs
// the session out as a side effect.
func (s *Service) DeleteUser(ctx context.Context, email string) error {
	normalized := normalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[normalized]; !exists {
		return pkgerrors.New(pkgerrors.CodeNoAccount, "no account for this email")
	}
	delete(s.users, normalized)
	s.persistUsers(ctx)

	if s.session.User != nil && normalizeEmail(s.session.User.Email) == normalized {
		s.logoutLocked(ctx)
	}
	return nil
}

func (s *Service) installSession(ctx context.Context, user User) error {
	token, err := pkgauth.MintSessionToken(s.jwtCfg, s.now(), pkgauth.SessionTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	u := user
	s.session = Session{Token: token, User: &u}
	s.persistSession(ctx)
	return nil
}

func (s *Service) logoutLocked(ctx context.Context) {
	s.session = Session{}
	s.persistSession(ctx)
}

func (s *Service) nextUserID() string {
	stamp := s.now().UnixMilli()
	if stamp <= s.lastID {
		stamp = s.lastID + 1
	}
	s.lastID = stamp
	return fmt.Sprintf("U-%d", stamp)
}

func (s *Service) persistUsers(ctx context.Context) {
	s.store.Save(ctx, usersKey, s.users)
}

func (s *Service) persistSession(ctx context.Context) {
	s.store.Save(ctx, sessionKey, s.session)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
