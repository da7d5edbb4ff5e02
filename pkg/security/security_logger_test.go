package security_test

import (
	"context"
	"testing"

	"softacc-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*security.SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return security.NewSecurityLogger(zap.New(core), "softacc-backend", "test"), logs
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", security.MaskEmail("anna@example.com"))
	assert.Equal(t, "***", security.MaskEmail("a@"))
	assert.Equal(t, "***@example.com", security.MaskEmail("a@example.com"))
	assert.Equal(t, "***nomail", security.MaskEmail("xnomail"))
}

func TestLogValidationFailedMasksEmail(t *testing.T) {
	sl, logs := newObserved()

	sl.LogValidationFailed(context.Background(), "anna@example.com", "10.0.0.1", "req-1", []string{"Nachricht: Pflichtfeld"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "validation_failed", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "a***@example.com", fields["subject_value"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.NotContains(t, fields["details"], "anna@example.com")
	assert.Contains(t, fields["details"], security.HashValue("anna@example.com"))
}

func TestHashValueIsStable(t *testing.T) {
	assert.Equal(t, security.HashValue("10.0.0.1"), security.HashValue("10.0.0.1"))
	assert.NotEqual(t, security.HashValue("10.0.0.1"), security.HashValue("10.0.0.2"))
	assert.Len(t, security.HashValue("x"), 16)
}
