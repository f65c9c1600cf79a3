package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"

	"github.com/sushihentaime/cleanblog/internal/common"
	"github.com/sushihentaime/cleanblog/internal/userservice"
)

const version = "1.0.0"

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	SecretKey   string `mapstructure:"SECRET_KEY"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	MailHost      string `mapstructure:"MAIL_HOST"`
	MailPort      int    `mapstructure:"MAIL_PORT"`
	MailUser      string `mapstructure:"MAIL_USER"`
	MailPassword  string `mapstructure:"MAIL_PASSWORD"`
	MailSender    string `mapstructure:"MAIL_SENDER"`
	MailRecipient string `mapstructure:"MAIL_RECIPIENT"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	// MetricsAddr serves /metrics without authentication on a separate listener.
	MetricsAddr string `mapstructure:"METRICS_ADDR"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	Version string `mapstructure:"-"`
}

var configDefaults = map[string]any{
	"PORT":           ":5000",
	"ENVIRONMENT":    "development",
	"SECRET_KEY":     "",
	"DATABASE_URL":   "",
	"MAIL_HOST":      "",
	"MAIL_PORT":      587,
	"MAIL_USER":      "",
	"MAIL_PASSWORD":  "",
	"MAIL_SENDER":    "",
	"MAIL_RECIPIENT": "",
	"RABBITMQ_URL":   "",
	"METRICS_ADDR":   "",
	"TLS_CERT_FILE":  "",
	"TLS_KEY_FILE":   "",
}

// loadConfig reads the optional env file at path. Environment variables take precedence
// over the file.
func loadConfig(path string) (*Config, error) {
	v := viper.New()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	config.Version = version

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) isProduction() bool {
	return c.Environment == "production"
}

// validate reports every missing or invalid setting at once.
func (c *Config) validate() error {
	var errs []error

	switch {
	case c.SecretKey == "":
		errs = append(errs, errors.New("SECRET_KEY must be provided"))
	case len(c.SecretKey) < userservice.MinSecretLength:
		errs = append(errs, fmt.Errorf("SECRET_KEY must be at least %d bytes", userservice.MinSecretLength))
	}

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL must be provided"))
	} else if _, err := common.ParseDatabaseURL(c.DatabaseURL); err != nil {
		errs = append(errs, fmt.Errorf("DATABASE_URL: %w", err))
	}

	if c.MailPort < 1 || c.MailPort > 65535 {
		errs = append(errs, errors.New("MAIL_PORT must be a valid port number"))
	}

	if c.MetricsAddr != "" && c.MetricsAddr == c.Port {
		errs = append(errs, errors.New("METRICS_ADDR must differ from PORT"))
	}

	if c.isProduction() && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be provided in production"))
	}

	return errors.Join(errs...)
}
