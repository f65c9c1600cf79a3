package userservice

import (
	"database/sql"
	"time"
)

const (
	SessionTime time.Duration = 7 * 24 * time.Hour

	// SeedAdminID is the identity of the first registered user, the only account
	// allowed to author, edit and delete posts.
	SeedAdminID = 1

	MinSecretLength = 32
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m      *UserModel
	secret []byte
	now    func() time.Time
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password Password `json:"-"`
}

// Password holds only the digest; the plaintext never outlives hashing.
type Password struct {
	hash string
}

// Session is an established login. Token is the signed value handed to the client;
// only the sha256 of the embedded session id is stored.
type Session struct {
	Token  string    `json:"-"`
	UserID int       `json:"user_id"`
	Expiry time.Time `json:"expiry"`
}
