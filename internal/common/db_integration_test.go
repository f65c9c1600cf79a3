package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/cleanblog/internal/common"
	"github.com/sushihentaime/cleanblog/internal/common/commontest"
)

func TestConstraintErrors_SQLite(t *testing.T) {
	db := commontest.DB(t)

	_, err := db.Exec("INSERT INTO users (name, email, password) VALUES ($1, $2, $3)", "a", "a@example.com", "x")
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO users (name, email, password) VALUES ($1, $2, $3)", "b", "a@example.com", "x")
	require.Error(t, err)
	assert.True(t, common.IsUniqueViolation(err, "users", "email"))
	assert.False(t, common.IsUniqueViolation(err, "posts", "title"))

	_, err = db.Exec("INSERT INTO comments (text, author_id, post_id) VALUES ($1, $2, $3)", "hi", 1, 42)
	require.Error(t, err)
	assert.True(t, common.IsForeignKeyViolation(err))
}

func TestMigrate_Postgres(t *testing.T) {
	db := commontest.Postgres(t)

	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM information_schema.tables WHERE table_name IN ('users', 'posts', 'comments', 'sessions')").Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
