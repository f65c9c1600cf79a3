// Package commontest provides migrated databases and brokers for tests.
package commontest

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sushihentaime/cleanblog/internal/common"
)

// DB returns a migrated sqlite database stored in the test's temp dir.
func DB(t *testing.T) *sql.DB {
	t.Helper()

	// t.TempDir can contain characters that are not valid in a URL.
	dir, err := os.MkdirTemp("", "cleanblog")
	if err != nil {
		t.Fatalf("could not create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	u, err := common.ParseDatabaseURL("sqlite3://" + filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("could not parse database url: %v", err)
	}

	return openTestDB(t, u)
}

// Postgres starts a postgres container and returns the migrated database. The test
// is skipped when no container runtime is available.
func Postgres(t *testing.T) *sql.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	c, err := postgres.Run(ctx,
		"docker.io/postgres:14.11-bookworm",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)))
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Terminate(ctx); err != nil {
			t.Logf("could not terminate postgres container: %v", err)
		}
	})

	connURL, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	u, err := common.ParseDatabaseURL(connURL)
	if err != nil {
		t.Fatalf("could not parse database url: %v", err)
	}

	return openTestDB(t, u)
}

func openTestDB(t *testing.T, u *common.DatabaseURL) *sql.DB {
	t.Helper()

	if err := common.Migrate(u); err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}

	db, err := common.NewDB(u, 4, 4, time.Minute)
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// RabbitMQ starts a broker container and returns its AMQP URL.
func RabbitMQ(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12.11-management-alpine", rabbitmq.WithAdminUsername("guest"), rabbitmq.WithAdminPassword("guest"))
	if err != nil {
		t.Fatalf("could not start rabbitmq container: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("could not terminate container: %v", err)
		}
	})

	connURL, err := container.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("could not get rabbitmq connection URL: %v", err)
	}

	return connURL
}
