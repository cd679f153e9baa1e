package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.zenoti.com", cfg.Zenoti.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Zenoti.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Zenoti.CacheTTL)
	assert.Equal(t, "UTC", cfg.Availability.Timezone)
	assert.True(t, cfg.Availability.AlignBlockedEnds)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Zero(t, cfg.Zenoti.RateLimitRPS)
	assert.Equal(t, 3, cfg.Zenoti.RetryAttempts)
}

func TestLoad_ZenotiConfig(t *testing.T) {
	t.Setenv("ZENOTI_BASE_URL", "http://zenoti.test")
	t.Setenv("ZENOTI_API_KEY", "test-key")
	t.Setenv("ZENOTI_TIMEOUT_SECONDS", "3")
	t.Setenv("ZENOTI_RATE_LIMIT_RPS", "2.5")
	t.Setenv("ZENOTI_RETRY_ATTEMPTS", "1")
	t.Setenv("ZENOTI_SLOT_FORMAT", "zoned")
	t.Setenv("ZENOTI_END_BOUNDARY_POLICY", "extra_grid_unit")
	t.Setenv("ZENOTI_TIMEZONE", "Asia/Kolkata")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://zenoti.test", cfg.Zenoti.BaseURL)
	assert.Equal(t, "test-key", cfg.Zenoti.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Zenoti.Timeout)
	assert.Equal(t, 2.5, cfg.Zenoti.RateLimitRPS)
	assert.Equal(t, 1, cfg.Zenoti.RetryAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)

	opts, err := cfg.Availability.EngineOptions()
	require.NoError(t, err)
	assert.Equal(t, availability.SlotFormatZoned, opts.SlotFormat)
	assert.Equal(t, availability.EndPolicyExtraGridUnit, opts.EndPolicy)
	assert.Equal(t, "Asia/Kolkata", opts.DefaultLocation.String())
}

func TestLoad_RejectsUnknownSettings(t *testing.T) {
	tests := map[string]string{
		"ZENOTI_SLOT_FORMAT":         "epoch",
		"ZENOTI_END_BOUNDARY_POLICY": "half",
		"ZENOTI_TIMEZONE":            "Local",
		"ZENOTI_TIMEOUT_SECONDS":     "0",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.RedisAddr())
}
