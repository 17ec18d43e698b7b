package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	TimeZone           string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
	OtelEndpoint       string
}

type DatabaseConfig struct {
	Connection string
	Verbose    bool
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// Enabled reports whether outgoing mail is configured.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Email != ""
}

type AuthConfig struct {
	JwtSecret    string
	CronSecret   string // Bearer token for /api/cron/generate-fees
	CronAPIKey   string // x-api-key for /api/cron/check-subscriptions
	TokenTTLHour int
}

type SchedulerConfig struct {
	Enabled              bool
	FeeSchedule          string
	SubscriptionSchedule string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			TimeZone:           getEnv("APP_TIMEZONE", "UTC"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Verbose:    getEnvAsBool("DB_VERBOSE", false),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Academy"),
		},
		Auth: AuthConfig{
			JwtSecret:    getEnv("JWT_SECRET", ""),
			CronSecret:   getEnv("CRON_SECRET", ""),
			CronAPIKey:   getEnv("CRON_API_KEY", ""),
			TokenTTLHour: getEnvAsInt("JWT_TTL_HOURS", 24),
		},
		Scheduler: SchedulerConfig{
			Enabled:              getEnvAsBool("SCHEDULER_ENABLED", false),
			FeeSchedule:          getEnv("FEE_CRON_SCHEDULE", "0 1 * * *"),
			SubscriptionSchedule: getEnv("SUBSCRIPTION_CRON_SCHEDULE", "30 1 * * *"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Location resolves APP_TIMEZONE, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
