package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")

	l, err := New(Config{Level: "debug", OutputPaths: []string{out}})
	require.NoError(t, err)

	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	l.Debug("hello")
	assert.NoError(t, l.Sync())
	assert.FileExists(t, out)
}

func TestDefaultConfigIsQuiet(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "error", cfg.Level)
	assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
}

func TestGetNeverNil(t *testing.T) {
	assert.NotNil(t, Get())
	assert.NotNil(t, WithContext(context.Background(), nil))
}

func TestWithContextAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("plain")
	WithContext(ContextWithRequestID(context.Background(), "ffi-7"), base).Info("tagged")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, "ffi-7", entries[1].ContextMap()["request_id"])
}
