package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sctl.log")

	log, err := NewFileLogger(path)
	require.NoError(t, err)

	log.Info("starting with %d hosts", 3)
	log.Debug("probe %s ok", "web1")
	log.Warn("slow host: %s", "db1")
	log.Error("failed: %v", "boom")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[INFO] starting with 3 hosts")
	assert.Contains(t, content, "[DEBUG] probe web1 ok")
	assert.Contains(t, content, "[WARN] slow host: db1")
	assert.Contains(t, content, "[ERROR] failed: boom")
}

func TestNewFileLogger_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sctl.log")

	first, err := NewFileLogger(path)
	require.NoError(t, err)
	first.Info("first run")

	second, err := NewFileLogger(path)
	require.NoError(t, err)
	second.Info("second run")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.Contains(t, string(data), "second run")
}

func TestNewFileLogger_BadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "sctl.log"))
	assert.Error(t, err)
}

func TestNoop(t *testing.T) {
	log := Noop()

	// Should not panic
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
}

func TestBufferLogger(t *testing.T) {
	log := NewBufferLogger()

	log.Debug("a %d", 1)
	log.Info("b")
	log.Warn("c")
	log.Error("d")

	require.Len(t, log.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "a 1"}, log.Messages[0])
	assert.True(t, log.HasLevel("error"))
	assert.False(t, log.HasLevel("fatal"))

	log.Clear()
	assert.Empty(t, log.Messages)
}

func TestDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	buf := NewBufferLogger()
	SetDefault(buf)

	Default().Info("hello")
	assert.True(t, buf.HasLevel("info"))
}
