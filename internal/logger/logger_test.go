package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("production", "warn"))
	assert.False(t, zap.L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, zap.L().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, SetLevel("debug"))
	assert.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("development", "loud"))
}
