package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"finbook/internal/advisor"
	"finbook/internal/amqp"
	"finbook/internal/auth"
	"finbook/internal/bank"
	"finbook/internal/config"
	apphttp "finbook/internal/http"
	"finbook/internal/log"
	"finbook/internal/notify"
	"finbook/internal/notify/gmail"
	"finbook/internal/services"
	"finbook/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Outbound email is optional: without credentials alerts are still
	// computed and returned, just never mailed.
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

	// Empty AMQP URL means side effects run in-process.
	var queue notify.Queue
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		queue = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - notifications dispatch in-process")
	}

	dispatcher := notify.NewDispatcher(queue, mailer, cfg.MailFrom, logger)

	var insightSvc *services.InsightService
	if cfg.AdvisorAPIKey != "" {
		adv := advisor.NewClient(cfg.AdvisorBaseURL, cfg.AdvisorAPIKey, cfg.AdvisorModel, logger)
		insightSvc = services.NewInsightService(repo, adv, dispatcher, logger)
		logger.Info("AI advisor initialized", "model", cfg.AdvisorModel)
	} else {
		logger.Info("AI advisor disabled - no ADVISOR_API_KEY provided")
	}

	var bankSvc *services.BankSyncService
	if cfg.BankBaseURL != "" {
		feed := bank.NewClient(cfg.BankBaseURL, cfg.BankAPIKey, logger)
		bankSvc = services.NewBankSyncService(repo, feed, logger)
		logger.Info("Bank feed client initialized")
	} else {
		logger.Info("Bank sync disabled - no BANK_BASE_URL provided")
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:         ":" + cfg.Port,
		Repo:         repo,
		Tokens:       auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn),
		Transactions: services.NewTransactionService(repo, dispatcher, logger),
		Alerts:       services.NewAlertService(repo, logger),
		Reminders:    services.NewReminderService(repo, dispatcher, cfg.ReminderLookaheadDays, logger),
		Insights:     insightSvc,
		Importer:     services.NewImportService(repo, logger),
		BankSync:     bankSvc,
		UploadsDir:   cfg.UploadsDir,
		AdminToken:   cfg.AdminToken,
		Logger:       logger,
	})
	if cfg.AdminToken == "" {
		logger.Info("Admin endpoints disabled - no ADMIN_TOKEN provided")
	}

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting finbook server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
