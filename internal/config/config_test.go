package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CRON_SECRET", "")
	t.Setenv("SCHEDULER_ENABLED", "")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg := Load()

	assert.Equal(t, "", cfg.Auth.CronSecret)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, "0 1 * * *", cfg.Scheduler.FeeSchedule)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CRON_SECRET", "s3cret")
	t.Setenv("CRON_API_KEY", "k3y")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.Auth.CronSecret)
	assert.Equal(t, "k3y", cfg.Auth.CronAPIKey)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "Asia/Jakarta", cfg.Location().String())
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := &Config{App: AppConfig{TimeZone: "Mars/Olympus"}}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestGetEnvAsBool_InvalidUsesFallback(t *testing.T) {
	t.Setenv("SOME_FLAG", "not-a-bool")
	assert.True(t, getEnvAsBool("SOME_FLAG", true))
}
