package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "STORAGE_DRIVER", "DATABASE_URL", "POSTGRESQL_HOST", "POSTGRESQL_USER",
		"POSTGRESQL_PASSWORD", "POSTGRESQL_DBNAME", "POSTGRESQL_PORT", "JWT_SECRET",
		"CORS_ALLOWED_ORIGINS", "TELEGRAM_BOT_TOKEN", "TELEGRAM_LOG_CHANNEL_ID",
		"LISTING_TTL", "REPORT_ALERT_THRESHOLD", "DEFAULT_PER_PAGE", "MAX_PER_PAGE",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnv_DevelopmentDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LISTING_TTL", "720h")
	t.Setenv("REPORT_ALERT_THRESHOLD", "3")
	t.Setenv("DEFAULT_PER_PAGE", "15")
	t.Setenv("MAX_PER_PAGE", "100")

	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.AllowedOrigins)
	assert.Equal(t, 720*time.Hour, cfg.ListingTTL)
	assert.Equal(t, 3, cfg.ReportAlertThreshold)
	assert.False(t, cfg.TelegramEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DEFAULT_PER_PAGE", "15")
	t.Setenv("MAX_PER_PAGE", "100")

	t.Setenv("JWT_SECRET", "short")
	_, err := fromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	_, err = fromEnv()
	assert.ErrorContains(t, err, "CORS_ALLOWED_ORIGINS")

	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	cfg, err := fromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)

	t.Setenv("STORAGE_DRIVER", "memory")
	_, err = fromEnv()
	assert.Error(t, err)
}

func TestFromEnv_UnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := fromEnv()
	assert.Error(t, err)
}

func TestGetDatabaseURL_FromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_PORT", "6432")
	t.Setenv("POSTGRESQL_USER", "app")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "classifieds")

	assert.Equal(t, "postgres://app:p%40ss@db:6432/classifieds?sslmode=disable", getDatabaseURL())
}

func TestTelegramEnabled(t *testing.T) {
	cfg := &Config{TelegramBotToken: "123:abc", TelegramChannelID: -100}
	assert.True(t, cfg.TelegramEnabled())
	cfg.TelegramChannelID = 0
	assert.False(t, cfg.TelegramEnabled())
}
