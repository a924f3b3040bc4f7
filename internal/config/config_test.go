package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("API_SECRET", "")
	t.Setenv("NEXT_PUBLIC_API_SECRET", "")
	t.Setenv("APPS_SCRIPT_URL", "")
	t.Setenv("APPS_SCRIPT_SECRET", "")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.AppsScriptURL)
	assert.Equal(t, 30*time.Second, cfg.RemoteTimeout())
	assert.Equal(t, float64(0), cfg.RemoteRequestsPerSecond())
	assert.Equal(t, 10, cfg.PageLimit())
	assert.Equal(t, 100, cfg.KaryawanLimit())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_SecretFallbacks(t *testing.T) {
	t.Setenv("API_SECRET", "")
	t.Setenv("NEXT_PUBLIC_API_SECRET", "dashboard-secret")
	t.Setenv("APPS_SCRIPT_SECRET", "")

	cfg := LoadConfig()

	assert.Equal(t, "dashboard-secret", cfg.APISecret)
	assert.Equal(t, "dashboard-secret", cfg.AppsScriptSecret)

	t.Setenv("API_SECRET", "explicit")
	t.Setenv("APPS_SCRIPT_SECRET", "script-only")

	cfg = LoadConfig()

	assert.Equal(t, "explicit", cfg.APISecret)
	assert.Equal(t, "script-only", cfg.AppsScriptSecret)
}

func TestConfig_ParsersFallBackOnBadValues(t *testing.T) {
	cfg := &Config{
		AppsScriptTimeout:   "soon",
		AppsScriptRateLimit: "-3",
		DefaultPageLimit:    "zero",
		KaryawanMaxLimit:    "-1",
	}

	assert.Equal(t, 30*time.Second, cfg.RemoteTimeout())
	assert.Equal(t, float64(0), cfg.RemoteRequestsPerSecond())
	assert.Equal(t, 10, cfg.PageLimit())
	assert.Equal(t, 100, cfg.KaryawanLimit())

	cfg.AppsScriptTimeout = "0s"
	assert.Equal(t, time.Duration(0), cfg.RemoteTimeout())

	cfg.AppsScriptTimeout = "5s"
	cfg.AppsScriptRateLimit = "2.5"
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeout())
	assert.Equal(t, 2.5, cfg.RemoteRequestsPerSecond())
}
