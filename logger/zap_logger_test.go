package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerWritesModuleAndDetails(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.Info("editor", "element added", map[string]interface{}{"type": "button"})
	l.Debug("editor", "no details", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "element added", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "editor", ctx["module"])
	assert.Equal(t, map[string]interface{}{"type": "button"}, ctx["details"])
	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
}

func TestErrorAttachesError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewWithCore(core)

	l.Error("export", "capture failed", map[string]interface{}{"error": errors.New("boom")})
	l.Warn("export", "slow", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blueprint.log")
	l := NewZapLogger(path, true)
	l.Info("test", "hello", nil)
	_ = l.Sync()

	assert.Equal(t, path, l.FilePath())
	assert.FileExists(t, path)
	assert.NotPanics(t, func() { NewNop().Info("x", "y", nil) })
}

func TestFileOnlyLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tui.log")
	l := NewFileLogger(path)
	l.Debug("tui", "started", map[string]interface{}{"elements": 2})
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"started"`)
	assert.Contains(t, string(data), `"module":"tui"`)
}
