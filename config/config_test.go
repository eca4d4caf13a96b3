package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.GetBaseURL())
	assert.Equal(t, 15*time.Second, cfg.GetTimeout())
	assert.Equal(t, "/login", cfg.GetLoginPath())
	assert.Equal(t, BackendFile, cfg.SessionBackend)
	assert.Equal(t, ":3000", cfg.WebAddr)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VEND_API_URL", "https://api.example.com")
	t.Setenv("VEND_HTTP_TIMEOUT", "3s")
	t.Setenv("VEND_SESSION_BACKEND", BackendSQLite)
	t.Setenv("VEND_COOKIE_SECURE", "true")
	t.Setenv("VEND_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, BackendSQLite, cfg.SessionBackend)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "backend", key: "VEND_SESSION_BACKEND", val: "redis"},
		{name: "url", key: "VEND_API_URL", val: "not a url"},
		{name: "timeout", key: "VEND_HTTP_TIMEOUT", val: "10ms"},
		{name: "level", key: "VEND_LOG_LEVEL", val: "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsUnparsableDuration(t *testing.T) {
	t.Setenv("VEND_HTTP_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
