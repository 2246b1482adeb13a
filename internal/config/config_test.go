package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"go duration", "45m", 45 * time.Minute},
		{"plain seconds", "90", 90 * time.Second},
		{"garbage falls back", "soon", 30 * time.Minute},
		{"empty falls back", "", 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STAGING_TTL", tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration("STAGING_TTL", 30*time.Minute))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STAGING_BACKEND", "memory")
	t.Setenv("AI_TIMEOUT", "15s")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "memory", cfg.Staging.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Staging.TTL)
	assert.Equal(t, 15*time.Second, cfg.Ai.Timeout)
	assert.True(t, cfg.App.OtelEnabled)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
}
