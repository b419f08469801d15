package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	LogLevel string
	SeedDemo bool
	Database DatabaseConfig
	SMTP     SMTPConfig
	Notices  NoticeConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // mysql or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// SMTPConfig holds the outgoing mail relay. An empty Host disables mail.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// NoticeConfig holds the delinquent notice scheduler settings
type NoticeConfig struct {
	Enabled  bool
	Schedule string
	Timezone string
}

// DefaultNoticeSchedule runs at 09:00 on the 5th of every month
const DefaultNoticeSchedule = "0 9 5 * *"

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	slog.Info("configuration loaded", "mode", cfg.AppMode, "db_driver", cfg.Database.Driver)
	return cfg, nil
}

// FromEnv builds and validates the configuration from the process environment
func FromEnv() (*Config, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))

	cfg := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		SeedDemo: getBool("SEED_DEMO", false),
		Database: loadDatabaseConfig(appMode),
		SMTP:     loadSMTPConfig(),
		Notices: NoticeConfig{
			Enabled:  getBool("NOTICES_ENABLED", true),
			Schedule: getEnv("NOTICE_SCHEDULE", DefaultNoticeSchedule),
			Timezone: getEnv("NOTICE_TIMEZONE", "Local"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if c.AppMode != "dev" && c.AppMode != "prod" {
		return fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", c.AppMode)
	}
	if c.Database.Driver != "mysql" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'sqlite')", c.Database.Driver)
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: '%s'", c.Port)
	}
	if _, err := cron.ParseStandard(c.Notices.Schedule); err != nil {
		return fmt.Errorf("invalid NOTICE_SCHEDULE: '%s': %w", c.Notices.Schedule, err)
	}
	if _, err := time.LoadLocation(c.Notices.Timezone); err != nil {
		return fmt.Errorf("invalid NOTICE_TIMEZONE: '%s': %w", c.Notices.Timezone, err)
	}
	return nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", "3306"),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "fee_ledger"),
		SQLitePath: getEnv("SQLITE_PATH", "fee_ledger.db"),
	}
}

// loadSMTPConfig loads the mail relay config
func loadSMTPConfig() SMTPConfig {
	port, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		port = 587
	}

	return SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     port,
		User:     getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASS", ""),
		From:     getEnv("SMTP_FROM", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// MailEnabled reports whether an SMTP relay is configured
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != ""
}

// Location returns the office time zone used for month boundaries and the
// notice schedule
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Notices.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "http://localhost:3000"
	}
	return origins
}
