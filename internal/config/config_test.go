package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(5000), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.False(t, cfg.Session.SecureCookies)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.UI.TemplatesPath)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/library")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("SESSION_LIFETIME", "1h")
	t.Setenv("SECURE_COOKIES", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/library", cfg.Database.DSN)
	assert.Equal(t, "s3cret", cfg.Session.SecretKey)
	assert.Equal(t, time.Hour, cfg.Session.Lifetime)
	assert.True(t, cfg.Session.SecureCookies)
}
