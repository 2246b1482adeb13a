package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_RedactsSensitiveDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newWithCore(core)

	l.Info("STAGING", "Selection staged", map[string]interface{}{
		"device_id": "device-1",
		"notes":     "started after the party",
		"Password":  "hunter2",
		"error":     errors.New("redis: connection refused"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "STAGING", ctx["module"])

	details, ok := ctx["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "device-1", details["device_id"])
	assert.Equal(t, redacted, details["notes"])
	assert.Equal(t, redacted, details["Password"])
	assert.Equal(t, "redis: connection refused", details["error"])
	assert.Equal(t, "redis: connection refused", ctx["error_ref"])
}

func TestZapLogger_NilDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	newWithCore(core).Warn("AUTH", "no details", nil)

	require.Equal(t, 1, logs.Len())
	_, hasDetails := logs.All()[0].ContextMap()["details"]
	assert.False(t, hasDetails)
}
