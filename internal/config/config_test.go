package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"SECRET", "HTTP_PORT", "DATABASE_DSN", "DB_HOST", "DB_USER", "DB_PORT", "DB_NAME", "DB_PASSWORD",
		"LOG_LEVEL", "ALLOWED_ORIGINS", "CATALOG_CSV", "SYNC_ENDPOINT", "SYNC_INTERVAL",
		"BACKUP_INTERVAL", "BACKUP_CHECK_INTERVAL", "BACKUP_KEEP",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "dev_secret", cfg.Secret)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "vetclinic.db", cfg.DatabaseDSN)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 15*time.Second, cfg.SyncInterval)
	assert.Equal(t, 24*time.Hour, cfg.BackupInterval)
	assert.Equal(t, time.Hour, cfg.BackupCheckInterval)
	assert.Equal(t, 7, cfg.BackupKeep)
	assert.Empty(t, cfg.SyncEndpoint)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SYNC_INTERVAL", "1m")
	t.Setenv("BACKUP_KEEP", "-3")

	cfg := Load()

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "postgres://postgres:pw@db.internal:5432/vetclinic?sslmode=disable", cfg.DatabaseDSN)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, 7, cfg.BackupKeep)
}
