package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sushihentaime/cleanblog/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("invalid credentials")
	ErrWeakSecret            = fmt.Errorf("secret key must be at least %d bytes", MinSecretLength)
)

func NewUserService(db *sql.DB, secret []byte) (*UserService, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	return &UserService{
		m:      NewUserModel(db),
		secret: secret,
		now:    time.Now,
	}, nil
}

// IsAnonymous reports whether u is the placeholder for a request without a valid session.
func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

// IsAdmin is true only for the seed account.
func (u *User) IsAdmin() bool {
	return !u.IsAnonymous() && u.ID == SeedAdminID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account. The email must not already be registered.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	v := common.NewValidator()
	validateName(v, name)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Name:  name,
		Email: email,
	}

	err := u.Password.set(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insert(ctx, &u)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.m.getByEmail(ctx, normalizeEmail(email))
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*User, error) {
	return s.m.getByID(ctx, id)
}

// Authenticate checks the credentials of a login form. It returns ErrNotFound when no
// account uses the email and ErrAuthenticationFailure on a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = normalizeEmail(email)

	v := common.NewValidator()
	validateEmail(v, email)
	validatePasswordProvided(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u, err := s.m.getByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !u.Password.matches(password) {
		return nil, ErrAuthenticationFailure
	}

	return u, nil
}

// Login persists a new session for u and returns it with its signed cookie value.
func (s *UserService) Login(ctx context.Context, u *User) (*Session, error) {
	if u == nil || u.IsAnonymous() {
		return nil, common.ErrAuthenticationRequired
	}

	now := s.now()

	err := s.m.deleteExpiredSessions(ctx, u.ID, now)
	if err != nil {
		return nil, err
	}

	sid, err := newSessionID()
	if err != nil {
		return nil, err
	}

	session := &Session{
		UserID: u.ID,
		Expiry: now.Add(SessionTime),
	}

	err = s.m.insertSession(ctx, sid, u.ID, session.Expiry)
	if err != nil {
		return nil, err
	}

	session.Token, err = s.signSession(sid, u.ID, now, session.Expiry)
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Logout deletes the session behind the cookie value. Invalid values are ignored.
func (s *UserService) Logout(ctx context.Context, value string) error {
	claims, err := s.parseSession(value)
	if err != nil {
		return nil
	}

	return s.m.deleteSession(ctx, claims.SessionID)
}

// CurrentUser resolves the cookie value to its user. On any failure the returned user is
// AnonymousUser; the error is ErrInvalidSession for a bad or stale session and a storage
// error otherwise.
func (s *UserService) CurrentUser(ctx context.Context, value string) (*User, error) {
	if value == "" {
		return &AnonymousUser, nil
	}

	claims, err := s.parseSession(value)
	if err != nil {
		return &AnonymousUser, err
	}

	u, err := s.m.getSessionUser(ctx, claims.SessionID, s.now())
	if err != nil {
		return &AnonymousUser, err
	}

	if claims.Subject != fmt.Sprint(u.ID) {
		return &AnonymousUser, ErrInvalidSession
	}

	return u, nil
}

// SessionCount returns how many sessions are stored for the user, expired or not.
func (s *UserService) SessionCount(ctx context.Context, userID int) (int, error) {
	return s.m.countSessions(ctx, userID)
}

// IsInvalidSession reports whether err only means the request carried no usable session.
func IsInvalidSession(err error) bool {
	return errors.Is(err, ErrInvalidSession)
}
