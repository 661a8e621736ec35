package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/svidalco/mdxblog/internal/blogservice"
	"github.com/svidalco/mdxblog/internal/common"
	"github.com/svidalco/mdxblog/internal/mailservice"
	"github.com/svidalco/mdxblog/internal/tokenservice"
	"github.com/svidalco/mdxblog/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	blogService *blogservice.BlogService
	tokens      *tokenservice.Issuer
	mailService *mailservice.MailService
	broker      *common.MessageBroker
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Environment == "production" && cfg.JWTSecret == "dev-secret-change-me" {
		logger.Warn("JWT_SECRET_KEY is still the insecure development default")
	}

	db, err := common.NewDB(filepath.Join(cfg.DataDir, "mdxblog.db"))
	if err != nil {
		logger.Error("failed to open the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	files, err := blogservice.NewArtifactStore(cfg.DataDir)
	if err != nil {
		logger.Error("failed to create the artifact store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:      cfg,
		logger:      logger,
		blogService: blogservice.NewBlogService(db, files, cache),
		tokens:      tokenservice.New(cfg.JWTSecret, time.Duration(cfg.JWTExpiresMinutes)*time.Minute),
	}

	// The mail pipeline is optional: without a broker host, signups simply
	// skip the user.created event.
	if cfg.RabbitMQ.Host != "" {
		URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
		broker, err := common.NewMessageBroker(URI)
		if err != nil {
			logger.Error("failed to connect to the message broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer broker.Close()

		if err := common.SetupUserExchange(broker); err != nil {
			logger.Error("failed to setup the user exchange", slog.String("error", err.Error()))
			os.Exit(1)
		}

		app.broker = broker
		app.userService = userservice.NewUserService(db, broker, logger)
		app.mailService = mailservice.NewMailService(broker, cfg.Mail.Host, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.Sender, cfg.Mail.Port, logger)

		go app.mailService.SendWelcomeEmail()
	} else {
		app.userService = userservice.NewUserService(db, nil, logger)
	}

	if err := app.serve(":" + cfg.Port); err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
