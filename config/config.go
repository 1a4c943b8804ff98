// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-driven setting of the service
type Config struct {
	Env  string
	Port string

	DatabaseURL string

	CatalogPath string

	GoogleCredentialsPath string
	GoogleCalendarID      string

	Timezone           string
	WeekendDays        string
	ScheduleLeadDays   int
	ScheduleWindowDays int

	SubmitCooldown time.Duration
	RateLimitDir   string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	NotifyEmail  string

	Locale     string
	Currency   string
	ChromePath string
	LogoPath   string
	AdminToken string
}

// Load reads the configuration. Invalid numbers and durations are errors, missing values use defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Env:                   getEnvOrDefault("ENV", "development"),
		Port:                  strings.TrimPrefix(getEnvOrDefault("PORT", "8080"), ":"),
		DatabaseURL:           databaseURL(),
		CatalogPath:           getEnvOrDefault("CATALOG_PATH", "config/catalog.yaml"),
		GoogleCredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		GoogleCalendarID:      os.Getenv("GOOGLE_CALENDAR_ID"),
		Timezone:              getEnvOrDefault("TIMEZONE", "UTC"),
		WeekendDays:           getEnvOrDefault("WEEKEND_DAYS", "sat,sun"),
		RateLimitDir:          os.Getenv("RATE_LIMIT_DIR"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:              os.Getenv("SMTP_FROM"),
		NotifyEmail:           os.Getenv("NOTIFY_EMAIL"),
		Locale:                getEnvOrDefault("LOCALE", "en-US"),
		Currency:              os.Getenv("CURRENCY"),
		ChromePath:            os.Getenv("CHROME_PATH"),
		LogoPath:              os.Getenv("LOGO_PATH"),
		AdminToken:            os.Getenv("ADMIN_TOKEN"),
	}

	var err error
	if cfg.ScheduleLeadDays, err = getIntOrDefault("SCHEDULE_LEAD_DAYS", 1); err != nil {
		return nil, err
	}
	if cfg.ScheduleWindowDays, err = getIntOrDefault("SCHEDULE_WINDOW_DAYS", 90); err != nil {
		return nil, err
	}
	if cfg.ScheduleLeadDays < 0 || cfg.ScheduleWindowDays < 1 {
		return nil, fmt.Errorf("SCHEDULE_LEAD_DAYS must be >= 0 and SCHEDULE_WINDOW_DAYS >= 1")
	}

	cooldown := getEnvOrDefault("SUBMIT_COOLDOWN", "30s")
	if cfg.SubmitCooldown, err = time.ParseDuration(cooldown); err != nil {
		return nil, fmt.Errorf("invalid SUBMIT_COOLDOWN %q: %w", cooldown, err)
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool { return c.Env == "production" }

// SMTPEnabled reports whether outgoing mail is configured
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != "" && c.NotifyEmail != ""
}

// CalendarEnabled reports whether the Google Calendar integration is configured
func (c *Config) CalendarEnabled() bool {
	return c.GoogleCredentialsPath != "" && c.GoogleCalendarID != ""
}

// Location loads the configured time zone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// databaseURL uses DATABASE_URL or builds a DSN from DB_* variables. Empty means no database.
func databaseURL() string {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		return connStr
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return ""
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, getEnvOrDefault("DB_PORT", "5432"), user, os.Getenv("DB_PASSWORD"), dbname,
		getEnvOrDefault("DB_SSLMODE", "disable"))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
