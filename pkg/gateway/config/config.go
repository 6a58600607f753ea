// Package config loads gateway configuration from DIALMATE_* environment
// variables with typed fallbacks.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	// CORS; empty means disabled.
	CORSAllowedOrigins map[string]struct{}

	// Gemini Live model session.
	GeminiAPIKey string
	Model        string
	Voice        string

	// Optional Postgres request ledger; empty keeps the in-memory ledger.
	DatabaseURL string

	// Seed for the simulated-outcome randomness source; 0 seeds from time.
	RandomSeed uint64

	// Live WebSocket mode (/v1/live).
	LiveMaxJSONMessageBytes int64
	LiveMaxAudioFrameBytes  int
	LiveHandshakeTimeout    time.Duration
	LiveWSWriteTimeout      time.Duration
	LiveWSPingInterval      time.Duration

	// Operational defaults.
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                    envOr("DIALMATE_ADDR", ":8080"),
		CORSAllowedOrigins:      make(map[string]struct{}),
		GeminiAPIKey:            strings.TrimSpace(os.Getenv("DIALMATE_GEMINI_API_KEY")),
		Model:                   envOr("DIALMATE_MODEL", "gemini-2.0-flash-live-001"),
		Voice:                   envOr("DIALMATE_VOICE", "Kore"),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DIALMATE_DATABASE_URL")),
		LiveMaxJSONMessageBytes: envInt64Or("DIALMATE_LIVE_MAX_JSON_MESSAGE_BYTES", 64*1024),
		LiveMaxAudioFrameBytes:  envIntOr("DIALMATE_LIVE_MAX_AUDIO_FRAME_BYTES", 8192),
		LiveHandshakeTimeout:    envDurationOr("DIALMATE_LIVE_HANDSHAKE_TIMEOUT", 5*time.Second),
		LiveWSWriteTimeout:      envDurationOr("DIALMATE_LIVE_WS_WRITE_TIMEOUT", 5*time.Second),
		LiveWSPingInterval:      envDurationOr("DIALMATE_LIVE_WS_PING_INTERVAL", 20*time.Second),
		ReadHeaderTimeout:       envDurationOr("DIALMATE_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:             envDurationOr("DIALMATE_READ_TIMEOUT", 0),
		ShutdownGracePeriod:     envDurationOr("DIALMATE_SHUTDOWN_GRACE", 10*time.Second),
	}

	if seed := strings.TrimSpace(os.Getenv("DIALMATE_RANDOM_SEED")); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse DIALMATE_RANDOM_SEED: %w", err)
		}
		cfg.RandomSeed = v
	}

	for _, origin := range strings.Split(os.Getenv("DIALMATE_CORS_ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.CORSAllowedOrigins[origin] = struct{}{}
		}
	}

	if cfg.LiveMaxAudioFrameBytes <= 0 {
		return Config{}, fmt.Errorf("DIALMATE_LIVE_MAX_AUDIO_FRAME_BYTES must be positive")
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envInt64Or(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
