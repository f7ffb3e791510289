/*
Package configs is responsible for loading and parsing the application's configuration.

All settings come from environment variables with development-friendly
defaults: server parameters (environment, port, CORS origins), the message
rate/mute tunables, history retention, and the WebSocket keepalive knobs.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the relay to run.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Rate Limiter / Mute Settings
	RateMaxMessages int
	RatePeriod      time.Duration
	MuteDuration    time.Duration

	// History Settings
	HistoryLimit int

	// Message Size Settings
	MaxMessageBytes int
	MaxFrameBytes   int64

	// WebSocket Keepalive Settings
	PongWait     time.Duration
	PingInterval time.Duration
}

// envInt reads an integer environment variable, falling back to def when unset.
func envInt(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

// envDuration reads a duration environment variable, falling back to def when unset.
func envDuration(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	return v, nil
}

// LoadConfig reads and validates the application configuration from the environment.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	port, err := envInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Rate Limiter / Mute Settings ---
	if cfg.RateMaxMessages, err = envInt("RATE_MAX_MESSAGES", 2); err != nil {
		return nil, err
	}
	if cfg.RateMaxMessages < 1 {
		return nil, fmt.Errorf("RATE_MAX_MESSAGES must be at least 1, got %d", cfg.RateMaxMessages)
	}

	if cfg.RatePeriod, err = envDuration("RATE_PERIOD", time.Second); err != nil {
		return nil, err
	}
	if cfg.MuteDuration, err = envDuration("MUTE_DURATION", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RatePeriod <= 0 || cfg.MuteDuration <= 0 {
		return nil, fmt.Errorf("RATE_PERIOD and MUTE_DURATION must be positive")
	}

	// --- History Settings ---
	if cfg.HistoryLimit, err = envInt("ROOM_HISTORY_LIMIT", 200); err != nil {
		return nil, err
	}
	if cfg.HistoryLimit < 0 {
		return nil, fmt.Errorf("ROOM_HISTORY_LIMIT must not be negative, got %d", cfg.HistoryLimit)
	}

	// --- Message Size Settings ---
	if cfg.MaxMessageBytes, err = envInt("MAX_MESSAGE_BYTES", 5000); err != nil {
		return nil, err
	}

	maxFrameMB, err := envInt("MAX_FRAME_MB", 100)
	if err != nil {
		return nil, err
	}
	if maxFrameMB < 1 {
		return nil, fmt.Errorf("MAX_FRAME_MB must be at least 1, got %d", maxFrameMB)
	}
	cfg.MaxFrameBytes = int64(maxFrameMB) << 20

	// --- WebSocket Keepalive Settings ---
	if cfg.PongWait, err = envDuration("PONG_WAIT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.PingInterval, err = envDuration("PING_INTERVAL", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.PingInterval <= 0 || cfg.PingInterval >= cfg.PongWait {
		return nil, fmt.Errorf("PING_INTERVAL (%s) must be positive and shorter than PONG_WAIT (%s)", cfg.PingInterval, cfg.PongWait)
	}

	return cfg, nil
}
