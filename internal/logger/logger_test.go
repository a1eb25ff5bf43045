package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"adoptions/internal/config"
	"adoptions/internal/logger"
)

func TestNew_Levels(t *testing.T) {
	l, err := logger.New(&config.LogConfig{Level: "WARN", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = logger.New(&config.LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(&config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
