package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	for _, key := range []string{
		"ESCALATION_DELAY", "GATEWAY_URL", "GATEWAY_TOKEN", "GATEWAY_TIMEOUT",
		"GATEWAY_RETRY_COUNT", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"EVENTS_STREAM", "EVENTS_MAXLEN", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Fanout.EscalationDelay)
	assert.Equal(t, "", cfg.Gateway.URL)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 3, cfg.Gateway.RetryCount)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "shiftfanout:events", cfg.Redis.Stream)
	assert.Equal(t, int64(10000), cfg.Redis.MaxLen)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ESCALATION_DELAY", "90s")
	t.Setenv("GATEWAY_URL", "https://gateway.test")
	t.Setenv("GATEWAY_TOKEN", "secret")
	t.Setenv("GATEWAY_RETRY_COUNT", "0")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("EVENTS_STREAM", "shifts")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Fanout.EscalationDelay)
	assert.Equal(t, "https://gateway.test", cfg.Gateway.URL)
	assert.Equal(t, "secret", cfg.Gateway.Token)
	assert.Equal(t, 0, cfg.Gateway.RetryCount)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "shifts", cfg.Redis.Stream)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]struct {
		key   string
		value string
	}{
		"malformed delay": {key: "ESCALATION_DELAY", value: "soon"},
		"negative delay":  {key: "ESCALATION_DELAY", value: "-1m"},
		"malformed db":    {key: "REDIS_DB", value: "two"},
		"malformed limit": {key: "EVENTS_MAXLEN", value: "lots"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
