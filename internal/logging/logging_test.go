package logging

import (
	"testing"

	"hbnb/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LoggingConfig
		level zapcore.Level
	}{
		{"console debug", config.LoggingConfig{Level: "debug", Format: config.FormatConsole}, zapcore.DebugLevel},
		{"json warn", config.LoggingConfig{Level: "warn", Format: config.FormatJSON}, zapcore.WarnLevel},
		{"error", config.LoggingConfig{Level: "error"}, zapcore.ErrorLevel},
		{"unset level falls back to info", config.LoggingConfig{}, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.True(t, logger.Core().Enabled(tt.level))
			if tt.level > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.level-1))
			}
		})
	}
}
