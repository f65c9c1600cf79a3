// Command seed fills a development database with the admin account and fake posts.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/viper"

	"github.com/sushihentaime/cleanblog/internal/blogservice"
	"github.com/sushihentaime/cleanblog/internal/common"
	"github.com/sushihentaime/cleanblog/internal/userservice"
)

type seedConfig struct {
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	SecretKey     string `mapstructure:"SECRET_KEY"`
	AdminName     string `mapstructure:"SEED_ADMIN_NAME"`
	AdminEmail    string `mapstructure:"SEED_ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`
	Posts         int    `mapstructure:"SEED_POSTS"`
	RandSeed      int64  `mapstructure:"SEED_RAND"`
}

func loadSeedConfig() (*seedConfig, error) {
	v := viper.New()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("SEED_ADMIN_NAME", "Admin")
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("SEED_ADMIN_PASSWORD", "")
	v.SetDefault("SEED_POSTS", 10)
	v.SetDefault("SEED_RAND", 0)
	v.AutomaticEnv()

	var cfg seedConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL must be set")
	}
	if cfg.AdminPassword == "" {
		return nil, errors.New("SEED_ADMIN_PASSWORD must be set")
	}

	return &cfg, nil
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadSeedConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbURL, err := common.ParseDatabaseURL(cfg.DatabaseURL)
	if err != nil {
		logger.Error("invalid database url", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = common.Migrate(dbURL)
	if err != nil {
		logger.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := common.NewDB(dbURL, 1, 1, time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	users, err := userservice.NewUserService(db, []byte(cfg.SecretKey))
	if err != nil {
		logger.Error("failed to initialize the user service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err = seed(ctx, logger, cfg, users, blogservice.NewBlogService(db))
	if err != nil {
		logger.Error("failed to seed the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// seed creates the admin account when user 1 does not exist yet, then cfg.Posts posts.
func seed(ctx context.Context, logger *slog.Logger, cfg *seedConfig, users *userservice.UserService, blog *blogservice.BlogService) error {
	_, err := users.GetUserByID(ctx, userservice.SeedAdminID)
	switch {
	case errors.Is(err, userservice.ErrNotFound):
		admin, err := users.CreateUser(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		if !admin.IsAdmin() {
			logger.Warn("users table was not empty, the new account is not the admin", slog.Int("user_id", admin.ID))
		}
		logger.Info("admin created", slog.String("email", admin.Email))
	case err != nil:
		return err
	}

	faker := gofakeit.New(cfg.RandSeed)

	created := 0
	for created < cfg.Posts {
		_, err := blog.CreatePost(ctx, fakePost(faker))
		switch {
		case errors.Is(err, blogservice.ErrDuplicateTitle):
			continue
		case err != nil:
			return fmt.Errorf("create post: %w", err)
		}
		created++
	}

	logger.Info("posts created", slog.Int("count", created))

	return nil
}

func fakePost(faker *gofakeit.Faker) *blogservice.PostInput {
	paragraphs := make([]string, faker.Number(2, 5))
	for i := range paragraphs {
		paragraphs[i] = "<p>" + faker.Paragraph(1, 5, 12, " ") + "</p>"
	}

	return &blogservice.PostInput{
		Title:    strings.TrimSuffix(faker.Sentence(5), "."),
		Subtitle: faker.Sentence(8),
		Author:   faker.Name(),
		ImgURL:   fmt.Sprintf("https://picsum.photos/seed/%s/1200/600", faker.LetterN(8)),
		Body:     strings.Join(paragraphs, "\n"),
	}
}
