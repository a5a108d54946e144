package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "planner.log")

	err := Init(Config{Level: "info", File: file})
	require.NoError(t, err)
	require.NotNil(t, Logger)

	Info("test info message", "habit_id", 1)
	Debug("filtered debug message")

	_, err = os.Stat(filepath.Dir(file))
	assert.NoError(t, err)
	assert.Equal(t, log.InfoLevel, Logger.GetLevel())
}

func TestInit_InvalidLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(Config{Level: "verbose", Format: "json"}))
	assert.Equal(t, log.InfoLevel, Logger.GetLevel())
}

func TestNew_WritesKeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.DebugLevel)
	l.Info("toggled", "action", "added")
	assert.Contains(t, buf.String(), "action=added")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// Logger 为空时不应 panic
	Debug("test debug message")
	Info("test info message")
	Warn("test warning message")
	Error("test error message")
	assert.NotNil(t, Get())
}
