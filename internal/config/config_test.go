package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Hour, cfg.RateLimitPeriod)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_DRIVER", "mongo")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_PERIOD", "30s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverMongo, cfg.DatabaseDriver)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitPeriod)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DATABASE_DRIVER", "cassandra"},
		{"zero rate limit", "RATE_LIMIT_REQUESTS", "0"},
		{"sample rate above one", "TRACING_SAMPLE_RATE", "1.5"},
		{"malformed duration", "RATE_LIMIT_PERIOD", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
