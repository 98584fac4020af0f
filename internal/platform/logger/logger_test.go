package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck/internal/config"
)

func TestSetupReturnsLogger(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case", logLevel: "Info"},
		{name: "invalid falls back to info", logLevel: "trace"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{Port: 8080, LogLevel: tc.logLevel})
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.Same(t, logger, slog.Default(), "Setup should install the logger as default")
		})
	}
}

func TestContextLogger(t *testing.T) {
	base := slog.Default()
	scoped := base.With(slog.String("trace_id", "abc123"))

	ctx := context.Background()
	assert.Nil(t, FromContext(ctx), "empty context should carry no logger")
	assert.Same(t, base, FromContextOrDefault(ctx, base))

	ctx = WithLogger(ctx, scoped)
	assert.Same(t, scoped, FromContext(ctx))
	assert.Same(t, scoped, FromContextOrDefault(ctx, base), "context logger wins over default")

	assert.NotNil(t, FromContextOrDefault(context.Background(), nil), "nil default falls back to slog.Default")
}
