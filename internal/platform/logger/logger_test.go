package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/DavidHJones36/roguetwo-api/internal/config"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name         string
		level        string
		debugVisible bool
		infoVisible  bool
	}{
		{name: "debug", level: "debug", debugVisible: true, infoVisible: true},
		{name: "info", level: "info", debugVisible: false, infoVisible: true},
		{name: "case insensitive", level: "WARN", debugVisible: false, infoVisible: false},
		{name: "invalid falls back to info", level: "chatty", debugVisible: false, infoVisible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, buf)
			require.NoError(t, err)
			require.NotNil(t, l)

			l.Debug("debug message")
			l.Info("info message")

			assert.Equal(t, tt.debugVisible, len(logger.FindEntries(t, buf, "debug message")) == 1)
			assert.Equal(t, tt.infoVisible, len(logger.FindEntries(t, buf, "info message")) == 1)
			assert.Same(t, l, slog.Default())
		})
	}
}

func TestContextLogger(t *testing.T) {
	t.Parallel()

	buf, l := logger.NewTestLogger(t)
	fallback := slog.New(slog.DiscardHandler)

	ctx := logger.WithLogger(context.Background(), l)
	logger.FromContext(ctx).Info("from context", slog.String("component", "test"))
	logger.AssertLogContains(t, buf, `"component":"test"`)

	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, l, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContext(context.Background()))
}
