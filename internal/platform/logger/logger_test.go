// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/platform/logger"
)

func TestSetupLevels(t *testing.T) {
	tests := []struct {
		name          string
		configured    string
		enabledLevel  slog.Level
		disabledLevel slog.Level
	}{
		{
			name:          "debug level",
			configured:    "debug",
			enabledLevel:  slog.LevelDebug,
			disabledLevel: slog.LevelDebug - 4,
		},
		{
			name:          "info level",
			configured:    "info",
			enabledLevel:  slog.LevelInfo,
			disabledLevel: slog.LevelDebug,
		},
		{
			name:          "warn level",
			configured:    "warn",
			enabledLevel:  slog.LevelWarn,
			disabledLevel: slog.LevelInfo,
		},
		{
			name:          "error level",
			configured:    "error",
			enabledLevel:  slog.LevelError,
			disabledLevel: slog.LevelWarn,
		},
		{
			name:          "invalid level falls back to info",
			configured:    "verbose",
			enabledLevel:  slog.LevelInfo,
			disabledLevel: slog.LevelDebug,
		},
	}

	original := slog.Default()
	defer slog.SetDefault(original)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.Setup(config.ServerConfig{Port: 8080, LogLevel: tt.configured})
			require.NotNil(t, log)

			ctx := context.Background()
			assert.True(t, log.Enabled(ctx, tt.enabledLevel))
			assert.False(t, log.Enabled(ctx, tt.disabledLevel))

			// Setup installs the logger as the process default.
			assert.Equal(t, log, slog.Default())
		})
	}
}

func TestContextLogger(t *testing.T) {
	base := slog.Default()

	t.Run("FromContext returns stored logger", func(t *testing.T) {
		stored := base.With("component", "test")
		ctx := logger.WithLogger(context.Background(), stored)
		assert.Equal(t, stored, logger.FromContext(ctx))
	})

	t.Run("FromContext falls back to default", func(t *testing.T) {
		assert.Equal(t, slog.Default(), logger.FromContext(context.Background()))
	})

	t.Run("FromContextOrDefault prefers context logger", func(t *testing.T) {
		stored := base.With("component", "stored")
		fallback := base.With("component", "fallback")
		ctx := logger.WithLogger(context.Background(), stored)
		assert.Equal(t, stored, logger.FromContextOrDefault(ctx, fallback))
	})

	t.Run("FromContextOrDefault uses fallback when absent", func(t *testing.T) {
		fallback := base.With("component", "fallback")
		assert.Equal(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})
}

func TestSetupTestLoggerCapture(t *testing.T) {
	logBuf, log, cleanup := logger.SetupTestLogger(t, nil)
	defer cleanup()

	log.Info("probe message", "key", "value")

	entries, err := logBuf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "probe message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
}
