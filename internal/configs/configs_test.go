package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 2, cfg.RateMaxMessages)
	assert.Equal(t, time.Second, cfg.RatePeriod)
	assert.Equal(t, time.Minute, cfg.MuteDuration)
	assert.Equal(t, 200, cfg.HistoryLimit)
	assert.Equal(t, 5000, cfg.MaxMessageBytes)
	assert.Equal(t, int64(100<<20), cfg.MaxFrameBytes)
	assert.Equal(t, 30*time.Second, cfg.PongWait)
	assert.Equal(t, 5*time.Second, cfg.PingInterval)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RATE_MAX_MESSAGES", "5")
	t.Setenv("RATE_PERIOD", "2s")
	t.Setenv("MUTE_DURATION", "90s")
	t.Setenv("ROOM_HISTORY_LIMIT", "50")
	t.Setenv("MAX_FRAME_MB", "10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateMaxMessages)
	assert.Equal(t, 2*time.Second, cfg.RatePeriod)
	assert.Equal(t, 90*time.Second, cfg.MuteDuration)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, int64(10<<20), cfg.MaxFrameBytes)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		env   string
		value string
	}{
		{"non-numeric port", "PORT", "nope"},
		{"privileged port", "PORT", "80"},
		{"zero rate", "RATE_MAX_MESSAGES", "0"},
		{"bad period", "RATE_PERIOD", "fast"},
		{"negative history", "ROOM_HISTORY_LIMIT", "-1"},
		{"zero frame size", "MAX_FRAME_MB", "0"},
		{"ping slower than pong", "PING_INTERVAL", "31s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.env, tc.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
