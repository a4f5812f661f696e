// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestLoad_Defaults verifies default values when only required variables are set.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.RegistrationEnabled)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 31*24*time.Hour, cfg.RememberTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.MailEnabled())
	assert.Equal(t, int32(10), cfg.DatabaseMaxConns)
	assert.Equal(t, int32(2), cfg.DatabaseMinConns)
	assert.Equal(t, 5*time.Second, cfg.DatabaseStatementTimeout)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.True(t, cfg.MigrateOnStart)
}

/*
TestLoad_MissingRequired fails when a required variable is absent.
*/
func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", testSecret)

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_ShortSecret rejects a session secret too short for HMAC signing.
*/
func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", "short")

	_, err := config.Load()
	assert.ErrorContains(t, err, "SESSION_SECRET")
}

/*
TestLoad_Overrides verifies explicit values win over defaults.
*/
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("REGISTRATION_ENABLED", "false")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_MAX_CONNS", "4")
	t.Setenv("REDIS_POOL_SIZE", "32")
	t.Setenv("MIGRATE_ON_START", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, int32(4), cfg.DatabaseMaxConns)
	assert.Equal(t, 32, cfg.RedisPoolSize)
	assert.False(t, cfg.MigrateOnStart)

	assert.False(t, cfg.RegistrationEnabled)
	assert.True(t, cfg.MailEnabled())
	assert.True(t, cfg.IsProduction())
}
