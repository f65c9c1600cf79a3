package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/cleanblog/internal/common"
)

var (
	ErrDuplicateEmail = fmt.Errorf("%w: duplicate email", common.ErrConflict)
	ErrNotFound       = fmt.Errorf("user %w", common.ErrRecordNotFound)
)

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

// insert creates the user unless the email is already registered. The lookup and the
// insert share a transaction; the unique index covers concurrent registrations.
func (m *UserModel) insert(ctx context.Context, u *User) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = $1`, u.Email).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	query := `
		INSERT INTO users (name, email, password)
		VALUES ($1, $2, $3)
		RETURNING id`

	args := []any{
		u.Name,
		u.Email,
		u.Password.hash,
	}

	err = tx.QueryRowContext(ctx, query, args...).Scan(&u.ID)
	if err != nil {
		switch {
		case common.IsUniqueViolation(err, "users", "email"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return tx.Commit()
}

func (m *UserModel) getByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, name, email, password
		FROM users
		WHERE email = $1`

	return m.scanUser(m.db.QueryRowContext(ctx, query, email))
}

func (m *UserModel) getByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, name, email, password
		FROM users
		WHERE id = $1`

	return m.scanUser(m.db.QueryRowContext(ctx, query, id))
}

func (m *UserModel) scanUser(row *sql.Row) (*User, error) {
	var u User

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password.hash)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}
