package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	l := NewLogger("", "")
	require.NotNil(t, l)

	// None of the levels may panic, Critical included
	l.Critical("Test critical message", "TEST")
	l.Error("Test error message", "TEST")
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
			assert.Equal(t, tt.level, ParseLevel(tt.expected))
		})
	}
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelSystem, ParseLevel(""))
	assert.Equal(t, LevelSystem, ParseLevel("verbose"))
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.color, tt.level.DiscordColor())
			assert.NotEmpty(t, tt.level.Color())
		})
	}
}

func TestLineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf)
	l.logrus.SetFormatter(&lineFormatter{})

	l.WithFields(Fields{"guild": "g1", "category": "invite"}, "Engine").Success("Mensaje eliminado")

	line := buf.String()
	assert.Contains(t, line, "[SUCCESS] [Engine]: Mensaje eliminado")
	assert.Contains(t, line, "category=invite guild=g1")
	assert.NotContains(t, line, "tag=")
}

func TestSetLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf)
	l.SetLevel(LevelWarn)

	l.Info("hidden", "TEST")
	l.Debug("hidden", "TEST")
	assert.Empty(t, buf.String())

	l.Warn("shown", "TEST")
	l.Critical("shown too", "TEST")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "CRITICAL")
}

func TestLogFileCreation(t *testing.T) {
	logsDir := filepath.Join(".", "logs")
	os.RemoveAll(logsDir)
	t.Cleanup(func() { os.RemoveAll(logsDir) })

	l := NewLogger("", "")
	l.Error("to error.log", "TEST")
	l.Info("only combined", "TEST")
	l.Close()

	combined, err := os.ReadFile(filepath.Join(logsDir, "combined.log"))
	require.NoError(t, err)
	assert.Contains(t, string(combined), "to error.log")
	assert.Contains(t, string(combined), "only combined")

	errorsOnly, err := os.ReadFile(filepath.Join(logsDir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errorsOnly), "to error.log")
	assert.NotContains(t, string(errorsOnly), "only combined")
}

func TestGlobalLoggerInit(t *testing.T) {
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	require.NotNil(t, l)

	assert.Same(t, l, Init("different", "different"))
	assert.Same(t, l, Get())

	l.Close()
}
