package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesLogfmtToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "quest.log")

	logger, closer, err := New("debug", file)
	require.NoError(t, err)
	logger.Debug("loaded tasks", "count", 3)
	logger.Info("saved tasks", "path", "tasks.json")
	closer()

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `msg="loaded tasks"`)
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "prefix=quest")
	assert.Contains(t, out, "path=tasks.json")
}

func TestNewRespectsLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "quest.log")

	logger, closer, err := New("warn", file)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	closer()

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hidden")
	assert.Contains(t, string(raw), "shown")
}

func TestNewWithoutFileDiscards(t *testing.T) {
	logger, closer, err := New("", "")
	require.NoError(t, err)
	defer closer()
	logger.Info("nowhere")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, _, err := New("loud", "")
	require.Error(t, err)
}
