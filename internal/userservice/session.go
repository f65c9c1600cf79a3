package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// sessionClaims is the payload of the signed session cookie.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newSessionID() (string, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes), nil
}

func (s *UserService) signSession(sid string, userID int, issued, expiry time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *UserService) parseSession(value string) (*sessionClaims, error) {
	claims := &sessionClaims{}

	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.SessionID == "" {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

func (m *UserModel) insertSession(ctx context.Context, sid string, userID int, expiry time.Time) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)`

	_, err := m.db.ExecContext(ctx, query, hashToken(sid), userID, expiry.Unix())
	return err
}

func (m *UserModel) getSessionUser(ctx context.Context, sid string, now time.Time) (*User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password
		FROM users u
		INNER JOIN sessions s ON u.id = s.user_id
		WHERE s.token_hash = $1 AND s.expires_at > $2`

	u, err := m.scanUser(m.db.QueryRowContext(ctx, query, hashToken(sid), now.Unix()))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrInvalidSession
		default:
			return nil, err
		}
	}

	return u, nil
}

func (m *UserModel) deleteSession(ctx context.Context, sid string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, hashToken(sid))
	return err
}

func (m *UserModel) deleteExpiredSessions(ctx context.Context, userID int, now time.Time) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1 AND expires_at <= $2`, userID, now.Unix())
	return err
}

func (m *UserModel) countSessions(ctx context.Context, userID int) (int, error) {
	var n int
	err := m.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
