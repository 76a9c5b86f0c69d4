package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/89500204828slopi-cloud/surh-scope-bot/internal/app"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	AdminTelegramID int64
	UsersFile       string
	HoroscopesFile  string
	CronSpecDaily   string // when the daily dispatch run fires
	SendRatePerSec  int    // outbound Telegram message rate cap
	LogLevel        string
	Environment     string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	cfg.UsersFile = os.Getenv("USERS_FILE")
	if cfg.UsersFile == "" {
		cfg.UsersFile = "users.json"
	}

	cfg.HoroscopesFile = os.Getenv("HOROSCOPES_FILE")
	if cfg.HoroscopesFile == "" {
		cfg.HoroscopesFile = "horoscopes.json"
	}

	cfg.CronSpecDaily = os.Getenv("CRON_SPEC_DAILY")
	if cfg.CronSpecDaily == "" {
		cfg.CronSpecDaily = "0 9 * * *" // Default: 9:00 AM daily
	}

	rateStr := os.Getenv("SEND_RATE_PER_SEC")
	if rateStr == "" {
		cfg.SendRatePerSec = app.DefaultSendRatePerSec
	} else {
		cfg.SendRatePerSec, err = strconv.Atoi(rateStr)
		if err != nil || cfg.SendRatePerSec <= 0 {
			return nil, fmt.Errorf("invalid SEND_RATE_PER_SEC: %q", rateStr)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
