package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Receipt uploads
	UploadsDir string

	// Auth
	JWTSecret    string
	JWTExpiresIn time.Duration

	// AMQP (optional; empty URL disables the queue and side effects
	// are dispatched in-process)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Outbound email
	MailFrom string

	// AI advice collaborator
	AdvisorBaseURL string
	AdvisorAPIKey  string
	AdvisorModel   string

	// Bank-data aggregator
	BankBaseURL string
	BankAPIKey  string

	// Bill reminders
	ReminderLookaheadDays int

	// Operator endpoints (empty disables them)
	AdminToken string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finbook.db"),
		UploadsDir:   getEnv("UPLOADS_DIR", "./data/uploads"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finbook"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "notifications"),

		MailFrom: getEnv("MAIL_FROM", ""),

		AdvisorBaseURL: getEnv("ADVISOR_BASE_URL", "https://api.openai.com/v1"),
		AdvisorAPIKey:  getEnv("ADVISOR_API_KEY", ""),
		AdvisorModel:   getEnv("ADVISOR_MODEL", "gpt-4o-mini"),

		BankBaseURL: getEnv("BANK_BASE_URL", ""),
		BankAPIKey:  getEnv("BANK_API_KEY", ""),

		ReminderLookaheadDays: getEnvInt("REMINDER_LOOKAHEAD_DAYS", 30),

		AdminToken: getEnv("ADMIN_TOKEN", ""),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET must be set")
	} else if len(c.JWTSecret) < 16 {
		errors = append(errors, "JWT_SECRET too short: need at least 16 bytes")
	}

	if c.JWTExpiresIn < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid JWT expiry %v: must be at least 1 minute", c.JWTExpiresIn))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.MailFrom != "" && !strings.Contains(c.MailFrom, "@") {
		errors = append(errors, fmt.Sprintf("invalid MAIL_FROM '%s': not an email address", c.MailFrom))
	}

	if c.ReminderLookaheadDays < 1 || c.ReminderLookaheadDays > 365 {
		errors = append(errors, fmt.Sprintf("invalid reminder lookahead %d: must be between 1 and 365 days", c.ReminderLookaheadDays))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
