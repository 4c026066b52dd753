package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoggerGetLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rocktalk.log")
	l := NewFileLogger(path)

	l.Info("CHAT", "first", nil)
	l.Warn("CHAT", "second", map[string]interface{}{"session_id": "abc"})
	l.Error("LLM", "third", map[string]interface{}{"error": "boom"})
	l.Debug("CHAT", "dropped below info", nil)
	_ = l.Sync()

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)
	assert.Equal(t, "LLM", all[0].Module)
	assert.Equal(t, "first", all[2].Message)

	warns, err := l.GetLogs("warn", 10, 0)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "abc", warns[0].Details["session_id"])

	page, err := l.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Message)

	beyond, err := l.GetLogs("", 10, 50)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestGetLogsMissingFile(t *testing.T) {
	l := NewFileLogger(filepath.Join(t.TempDir(), "none", "x.log"))
	logs, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}
