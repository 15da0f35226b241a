package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewDefaults(t *testing.T) {
	l, err := New(Config{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestInitReplacesGlobal(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn", Encoding: "console"}))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}

func TestWithContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	mu.Lock()
	previous := globalLogger
	globalLogger = zap.New(core)
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		globalLogger = previous
		mu.Unlock()
	})

	ctx := context.WithValue(context.Background(), StageKey, "redact")
	ctx = context.WithValue(ctx, DumpFileKey, "errors.natm")

	WithContext(ctx).Info("atoms redacted")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "redact", fields["stage"])
	assert.Equal(t, "errors.natm", fields["dump_file"])
	assert.NotContains(t, fields, "job_id")
}
