package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"fee-ledger/internal/adapters/persistence/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_MODE", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("NOTICE_SCHEDULE", "")
	t.Setenv("NOTICE_TIMEZONE", "")
	t.Setenv("SMTP_HOST", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, DefaultNoticeSchedule, cfg.Notices.Schedule)
	assert.True(t, cfg.Notices.Enabled)
	assert.False(t, cfg.MailEnabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestFromEnvModePrefix(t *testing.T) {
	t.Setenv("APP_MODE", " prod ")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("DEV_DB_HOST", "localhost")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("NOTICE_TIMEZONE", "America/Sao_Paulo")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "America/Sao_Paulo", cfg.Location().String())
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"APP_MODE", "staging", "APP_MODE"},
		{"DB_DRIVER", "postgres", "DB_DRIVER"},
		{"PORT", "http", "PORT"},
		{"NOTICE_SCHEDULE", "monthly please", "NOTICE_SCHEDULE"},
		{"NOTICE_TIMEZONE", "Mars/Olympus", "NOTICE_TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "3306", DBName: "fees"})
	assert.Equal(t, "u:p@tcp(h:3306)/fees?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}

func TestConnectSQLiteAndSeed(t *testing.T) {
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	cfg := &Config{
		AppMode: "prod",
		Database: DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: "file:" + name + "?mode=memory&cache=shared",
		},
	}

	db, err := ConnectDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { CloseDatabase(db) })
	require.NoError(t, HealthCheck(db))
	require.NoError(t, models.AutoMigrate(db))

	now := func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) }
	seeder := NewSeeder(db, now)
	require.NoError(t, seeder.Run())

	var clients, payments, bills int64
	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Model(&models.Client{}).Count(&clients).Error)
	require.NoError(t, db.WithContext(ctx).Model(&models.Payment{}).Count(&payments).Error)
	require.NoError(t, db.WithContext(ctx).Model(&models.Bill{}).Count(&bills).Error)
	assert.Equal(t, int64(3), clients)
	assert.Equal(t, int64(3), payments)
	assert.Equal(t, int64(3), bills)

	// second run is a no-op
	require.NoError(t, seeder.Run())
	require.NoError(t, db.Model(&models.Client{}).Count(&clients).Error)
	assert.Equal(t, int64(3), clients)
}

func TestHealthCheckNil(t *testing.T) {
	assert.Error(t, HealthCheck(nil))
	assert.NoError(t, CloseDatabase(nil))
}
