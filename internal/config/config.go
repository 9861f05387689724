// Package config loads the settings of the example programs from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tomasbasham/shiftfanout"
)

// Config holds process level settings.
type Config struct {
	Fanout struct {
		EscalationDelay time.Duration
	}

	Gateway struct {
		URL        string
		Token      string
		Timeout    time.Duration
		RetryCount int
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
		Stream   string
		MaxLen   int64
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from environment variables, falling back to
// defaults for anything unset.
func Load() (*Config, error) {
	cfg := &Config{}

	var err error
	if cfg.Fanout.EscalationDelay, err = getDuration("ESCALATION_DELAY", shiftfanout.DefaultEscalationDelay); err != nil {
		return nil, err
	}

	cfg.Gateway.URL = getEnv("GATEWAY_URL", "")
	cfg.Gateway.Token = getEnv("GATEWAY_TOKEN", "")
	if cfg.Gateway.Timeout, err = getDuration("GATEWAY_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Gateway.RetryCount, err = getInt("GATEWAY_RETRY_COUNT", 3); err != nil {
		return nil, err
	}

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	cfg.Redis.Stream = getEnv("EVENTS_STREAM", "shiftfanout:events")
	maxLen, err := getInt("EVENTS_MAXLEN", 10000)
	if err != nil {
		return nil, err
	}
	cfg.Redis.MaxLen = int64(maxLen)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse %s: negative duration %s", key, d)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
