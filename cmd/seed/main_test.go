package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/cleanblog/internal/blogservice"
	"github.com/sushihentaime/cleanblog/internal/common"
	"github.com/sushihentaime/cleanblog/internal/common/commontest"
	"github.com/sushihentaime/cleanblog/internal/userservice"
)

func TestSeed(t *testing.T) {
	db := commontest.DB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	users, err := userservice.NewUserService(db, []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	blog := blogservice.NewBlogService(db)

	cfg := &seedConfig{
		AdminName:     "Admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "password123",
		Posts:         3,
		RandSeed:      42,
	}

	require.NoError(t, seed(ctx, logger, cfg, users, blog))

	admin, err := users.GetUserByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	posts, err := blog.GetPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Author)
		assert.True(t, common.IsURL(p.ImgURL))
		assert.Contains(t, p.Body, "<p>")
	}

	// a second run keeps the admin and only adds posts
	cfg.RandSeed = 7
	require.NoError(t, seed(ctx, logger, cfg, users, blog))

	_, err = users.GetUserByID(ctx, 2)
	assert.ErrorIs(t, err, userservice.ErrNotFound)

	n, err := blog.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}
