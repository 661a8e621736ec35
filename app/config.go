package main

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	// DataDir holds the SQLite database and the post artifact directory.
	DataDir string

	// JWTSecret defaults to a clearly-marked insecure development value so
	// a production misconfiguration is visible, not silent.
	JWTSecret         string
	JWTExpiresMinutes int

	// AdminSecret gates the destructive admin endpoints. Empty disables
	// them entirely.
	AdminSecret string

	Mail struct {
		Host     string
		Port     int
		User     string
		Password string
		Sender   string
	}

	RabbitMQ struct {
		Host     string
		Port     string
		User     string
		Password string
	}
}

// loadConfig reads the optional env file at path, then applies environment
// variable overrides. Every key has a default so the binary runs with zero
// configuration.
func loadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("VERSION", "1.0.0")
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("JWT_SECRET_KEY", "dev-secret-change-me")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRES_MINUTES", 480)
	v.SetDefault("ADMIN_SECRET", "")
	v.SetDefault("MAIL_HOST", "")
	v.SetDefault("MAIL_PORT", 25)
	v.SetDefault("MAIL_USER", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_SENDER", "mdxblog <no-reply@mdxblog.local>")
	v.SetDefault("RABBITMQ_HOST", "")
	v.SetDefault("RABBITMQ_PORT", "5672")
	v.SetDefault("RABBITMQ_USER", "guest")
	v.SetDefault("RABBITMQ_PASSWORD", "guest")

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	var config Config
	config.Port = v.GetString("PORT")
	config.Environment = v.GetString("ENVIRONMENT")
	config.Version = v.GetString("VERSION")
	config.DataDir = v.GetString("DATA_DIR")
	config.JWTSecret = v.GetString("JWT_SECRET_KEY")
	config.JWTExpiresMinutes = v.GetInt("JWT_ACCESS_TOKEN_EXPIRES_MINUTES")
	config.AdminSecret = v.GetString("ADMIN_SECRET")
	config.Mail.Host = v.GetString("MAIL_HOST")
	config.Mail.Port = v.GetInt("MAIL_PORT")
	config.Mail.User = v.GetString("MAIL_USER")
	config.Mail.Password = v.GetString("MAIL_PASSWORD")
	config.Mail.Sender = v.GetString("MAIL_SENDER")
	config.RabbitMQ.Host = v.GetString("RABBITMQ_HOST")
	config.RabbitMQ.Port = v.GetString("RABBITMQ_PORT")
	config.RabbitMQ.User = v.GetString("RABBITMQ_USER")
	config.RabbitMQ.Password = v.GetString("RABBITMQ_PASSWORD")

	return &config, nil
}
