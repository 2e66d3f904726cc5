package config_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"birthday_notification_bot/internal/infra/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"BIRTHDAYS_CONFIG", "LOG_LEVEL", "ENVIRONMENT", "REFERENCE_TIMEZONE",
		"CHECK_MARGIN", "WEBHOOK_TIMEOUT", "HEALTHCHECK_INTERVAL", "DISPATCH_RATE_PER_SEC",
		"TELEGRAM_TOKEN", "DATABASE_URL", "HEALTHCHECK_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "birthdays.json", cfg.BirthdaysPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.UTC, cfg.ReferenceTimezone)
	assert.Equal(t, 10*time.Second, cfg.CheckMargin)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, time.Duration(0), cfg.HealthcheckEvery)
	assert.Equal(t, 5, cfg.DispatchRatePerSec)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CHECK_MARGIN", "30")
	t.Setenv("HEALTHCHECK_INTERVAL", "2m")
	t.Setenv("REFERENCE_TIMEZONE", "Europe/Berlin")
	t.Setenv("DISPATCH_RATE_PER_SEC", "2")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.CheckMargin)
	assert.Equal(t, 2*time.Minute, cfg.HealthcheckEvery)
	assert.Equal(t, "Europe/Berlin", cfg.ReferenceTimezone.String())
	assert.Equal(t, 2, cfg.DispatchRatePerSec)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("REFERENCE_TIMEZONE", "Nowhere/Special")
	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrConfig)

	t.Setenv("REFERENCE_TIMEZONE", "UTC")
	t.Setenv("CHECK_MARGIN", "soon")
	_, err = config.Load()
	assert.ErrorIs(t, err, config.ErrConfig)

	t.Setenv("CHECK_MARGIN", "")
	t.Setenv("DISPATCH_RATE_PER_SEC", "0")
	_, err = config.Load()
	assert.ErrorIs(t, err, config.ErrConfig)
}
