package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{level: "", want: zapcore.WarnLevel},
		{level: "debug", want: zapcore.DebugLevel},
		{level: "info", want: zapcore.InfoLevel},
		{level: "ERROR", want: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		level, err := ParseLevel(tt.level)
		require.NoError(t, err, tt.level)
		assert.Equal(t, tt.want, level.Level(), tt.level)
	}
}

func TestParseLevelRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := ParseLevel("chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

func TestNewFollowsAtomicLevel(t *testing.T) {
	t.Parallel()

	level, err := ParseLevel("warn")
	require.NoError(t, err)

	logger, err := New(level)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	level.SetLevel(zapcore.DebugLevel)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
