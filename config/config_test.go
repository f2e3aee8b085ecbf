package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		WebhookSecret:   "0123456789abcdef0123456789abcdef",
		AllowedCIDRs:    []string{"203.0.113.0/24"},
		RateLimit:       100,
		RateLimitWindow: time.Minute,
		FreshnessWindow: 5 * time.Minute,
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_ValidateRejectsShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.WebhookSecret = "short"
	assert.Error(t, cfg.Validate())
}

func TestConfig_ValidateRejectsBadLimits(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RateLimitWindow = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.FreshnessWindow = -time.Second
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.AllowedCIDRs = nil
	assert.Error(t, cfg.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 5*time.Minute, cfg.FreshnessWindow)
	assert.Equal(t, 256, cfg.NotifyQueueSize)
	require.NotEmpty(t, cfg.AllowedCIDRs)
	assert.Contains(t, cfg.AllowedCIDRs, "127.0.0.0/8")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WEBHOOK_RATE_LIMIT", "10")
	t.Setenv("WEBHOOK_RATE_WINDOW", "30s")
	t.Setenv("WEBHOOK_ALLOWED_CIDRS", "10.0.0.0/8, 192.168.0.0/16")

	cfg := LoadConfig()

	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.0.0/16"}, cfg.AllowedCIDRs)
}
