package main

import (
	"database/sql"
	"html/template"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/cleanblog/internal/blogservice"
	"github.com/sushihentaime/cleanblog/internal/common"
	"github.com/sushihentaime/cleanblog/internal/mailservice"
	"github.com/sushihentaime/cleanblog/internal/userservice"
)

type application struct {
	config        *Config
	logger        *slog.Logger
	userService   *userservice.UserService
	blogService   *blogservice.BlogService
	mailService   *mailservice.MailService
	broker        *common.MessageBroker
	templateCache map[string]*template.Template
	metrics       *metrics
}

func newLogger(cfg *Config) *slog.Logger {
	if cfg != nil && cfg.isProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func main() {
	cfg, err := loadConfig(".env")
	if err != nil {
		newLogger(nil).Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)

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

	db, err := common.NewDB(dbURL, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		logger.Error("failed to initialize the application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.mailService.Close()

	if cfg.RabbitMQURL != "" {
		broker, err := common.NewMessageBroker(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		err = common.SetupContactExchange(broker)
		if err != nil {
			logger.Error("failed to setup the contact exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		app.broker = broker
		app.mailService.UseBroker(broker)

		err = app.mailService.ConsumeContactMessages(broker)
		if err != nil {
			logger.Error("failed to consume contact messages", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if cfg.MailHost == "" {
		logger.Warn("MAIL_HOST is not set, contact messages will fail to send")
	}

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newApplication(cfg *Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	userService, err := userservice.NewUserService(db, []byte(cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	templateCache, err := newTemplateCache(gravatarURL)
	if err != nil {
		return nil, err
	}

	return &application{
		config:        cfg,
		logger:        logger,
		userService:   userService,
		blogService:   blogservice.NewBlogService(db),
		mailService:   mailservice.NewMailService(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailRecipient, logger),
		templateCache: templateCache,
		metrics:       newMetrics(db),
	}, nil
}
