package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// DatabaseURL is a DATABASE_URL resolved to a database/sql driver, the migrations
// dialect directory, and the URL golang-migrate expects for the same database.
type DatabaseURL struct {
	Driver     string
	Dialect    string
	DSN        string
	MigrateURL string
}

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// ParseDatabaseURL normalizes the legacy postgres:// scheme to postgresql:// and maps
// SQLAlchemy style sqlite URLs (sqlite:///relative.db, sqlite:////absolute.db) as well
// as sqlite3://path onto the sqlite3 driver.
func ParseDatabaseURL(raw string) (*DatabaseURL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("database url must be provided")
	}

	if strings.HasPrefix(raw, "postgres://") {
		raw = strings.Replace(raw, "postgres://", "postgresql://", 1)
	}

	switch {
	case strings.HasPrefix(raw, "postgresql://"):
		return &DatabaseURL{
			Driver:     "postgres",
			Dialect:    DialectPostgres,
			DSN:        raw,
			MigrateURL: raw,
		}, nil
	case strings.HasPrefix(raw, "sqlite:///"):
		return sqliteURL(strings.TrimPrefix(raw, "sqlite:///"))
	case strings.HasPrefix(raw, "sqlite3://"):
		return sqliteURL(strings.TrimPrefix(raw, "sqlite3://"))
	}

	scheme, _, _ := strings.Cut(raw, "://")
	return nil, fmt.Errorf("unsupported database url scheme %q", scheme)
}

func sqliteURL(path string) (*DatabaseURL, error) {
	file, query, _ := strings.Cut(path, "?")
	if file == "" {
		return nil, errors.New("sqlite database url must name a file")
	}

	params := "_foreign_keys=on&_busy_timeout=5000"
	if query != "" {
		params = query + "&" + params
	}
	dsn := file + "?" + params

	return &DatabaseURL{
		Driver:     "sqlite3",
		Dialect:    DialectSQLite,
		DSN:        dsn,
		MigrateURL: "sqlite3://" + dsn,
	}, nil
}

func NewDB(u *DatabaseURL, maxOpenConns, maxIdleConns int, maxIdleTime time.Duration) (*sql.DB, error) {
	return connectDB(u.Driver, u.DSN, maxOpenConns, maxIdleConns, maxIdleTime)
}

// connectDB connects to the database and returns the connection
func connectDB(driver, dsn string, maxOpenConns int, maxIdleConns int, maxIdleTime time.Duration) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// CloseDB closes the database connection
func CloseDB(db *sql.DB) error {
	return db.Close()
}

// IsUniqueViolation reports whether err is a unique constraint failure on table.column.
// Postgres constraints follow the default <table>_<column>_key naming.
func IsUniqueViolation(err error, table, column string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == table+"_"+column+"_key"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique && strings.Contains(sqliteErr.Error(), table+"."+column)
	}

	return false
}

func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	return false
}
