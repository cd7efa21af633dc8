package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"development", "Production"} {
		logger, err := NewLogger(env, "warn")
		require.NoError(t, err)
		assert.False(t, logger.Zap().Core().Enabled(zapcore.InfoLevel), env)
		assert.True(t, logger.Zap().Core().Enabled(zapcore.WarnLevel), env)

		var _ Logger = logger.Named("test")
	}
}
