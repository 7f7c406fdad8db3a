package logger

import (
	"testing"

	"github.com/anonto42/social-network/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "a***@example.com", RedactEmail("alice@example.com"))
	assert.Equal(t, "b***@x.io", RedactEmail("b@x.io"))
	assert.Equal(t, "[REDACTED_EMAIL]", RedactEmail("no-at-sign"))
	assert.Equal(t, "[REDACTED_EMAIL]", RedactEmail("@example.com"))
	assert.Equal(t, "[REDACTED_EMAIL]", RedactEmail(""))
}

func TestNewLevels(t *testing.T) {
	log, err := New(&config.Config{Env: "development", LogLevel: "debug"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log, err = New(&config.Config{Env: "production", LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))
}

func TestNewDefaultsWithoutLevel(t *testing.T) {
	log, err := New(&config.Config{Env: "production"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&config.Config{LogLevel: "chatty"})
	assert.Error(t, err)
}
