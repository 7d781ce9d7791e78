package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"finbook/internal/advisor"
	"finbook/internal/amqp"
	"finbook/internal/config"
	"finbook/internal/log"
	"finbook/internal/notify"
	"finbook/internal/notify/gmail"
	"finbook/internal/services"
	"finbook/internal/storage"
	"finbook/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting finbook-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var mailer notify.Mailer
	if cfg.MailFrom != "" {
		gm, err := gmail.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Gmail client", log.FieldError, err)
			os.Exit(1)
		}
		mailer = gm
		logger.Info("Gmail mailer initialized", "from", cfg.MailFrom)
	} else {
		logger.Info("Email disabled - no MAIL_FROM provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The worker delivers directly; a queue-backed dispatcher here
	// would loop messages back to itself.
	dispatcher := notify.NewDispatcher(nil, mailer, cfg.MailFrom, logger)

	var insightSvc *services.InsightService
	if cfg.AdvisorAPIKey != "" {
		adv := advisor.NewClient(cfg.AdvisorBaseURL, cfg.AdvisorAPIKey, cfg.AdvisorModel, logger)
		insightSvc = services.NewInsightService(repo, adv, dispatcher, logger)
		logger.Info("AI advisor initialized", "model", cfg.AdvisorModel)
	} else {
		logger.Info("AI advisor disabled - insight requests will be dropped")
	}

	notificationWorker := worker.NewNotificationWorker(repo, dispatcher, insightSvc)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.Consume(gctx, func(msg *amqp.NotificationMessage) error {
			return notificationWorker.Handle(gctx, msg)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
