package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// ErrConfig wraps every configuration failure. It is the only fatal error class.
var ErrConfig = errors.New("configuration error")

// AppConfig holds all process level configuration for the application
type AppConfig struct {
	BirthdaysPath      string
	LogLevel           string
	Environment        string
	ReferenceTimezone  *time.Location
	CheckMargin        time.Duration
	TelegramToken      string // optional, enables telegram groups and bot commands
	DatabaseURL        string // optional, enables the delivery log
	WebhookTimeout     time.Duration
	DispatchRatePerSec int
	HealthcheckURL     string        // overrides the document's healthcheck url when set
	HealthcheckEvery   time.Duration // overrides the document's healthcheck interval when set
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.BirthdaysPath = os.Getenv("BIRTHDAYS_CONFIG")
	if cfg.BirthdaysPath == "" {
		cfg.BirthdaysPath = "birthdays.json"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	tz := os.Getenv("REFERENCE_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	cfg.ReferenceTimezone, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid REFERENCE_TIMEZONE %q: %v", ErrConfig, tz, err)
	}

	if cfg.CheckMargin, err = durationEnv("CHECK_MARGIN", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.WebhookTimeout, err = durationEnv("WEBHOOK_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HealthcheckEvery, err = durationEnv("HEALTHCHECK_INTERVAL", 0); err != nil {
		return nil, err
	}

	cfg.DispatchRatePerSec = 5
	if v := os.Getenv("DISPATCH_RATE_PER_SEC"); v != "" {
		cfg.DispatchRatePerSec, err = strconv.Atoi(v)
		if err != nil || cfg.DispatchRatePerSec <= 0 {
			return nil, fmt.Errorf("%w: invalid DISPATCH_RATE_PER_SEC %q", ErrConfig, v)
		}
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.HealthcheckURL = os.Getenv("HEALTHCHECK_URL")

	return cfg, nil
}

// durationEnv parses a Go duration ("10s") or a bare number of seconds.
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", ErrConfig, key, v)
	}
	return d, nil
}
