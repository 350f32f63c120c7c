package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	logger, closeFn, err := NewLogger(Options{Name: "server", Dir: dir, Level: "debug"})
	require.NoError(t, err)

	logger.WithField("stage", "embedding").Debug("hello")
	closeFn()

	data, err := os.ReadFile(filepath.Join(dir, "server.log"))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "embedding", entry["stage"])
	assert.Equal(t, "debug", entry["level"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_RejectsPathInName(t *testing.T) {
	_, _, err := NewLogger(Options{Name: "../escape", Dir: t.TempDir()})
	assert.Error(t, err)
}

func TestAsyncFileWriter_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.log")
	w, err := NewAsyncFileWriter(path, 16)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := w.Write([]byte("line\n"))
		require.NoError(t, err)
	}
	w.Close()
	w.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, strings.Count(string(data), "line\n"))

	_, err = w.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestConsoleHook(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.AddHook(NewConsoleHook(&buf))

	logger.Warn("mirrored")
	assert.Contains(t, buf.String(), `"msg":"mirrored"`)
}
