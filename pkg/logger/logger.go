// Package logger provides the logging system used across the bot.
// It is built on logrus: colored console output, file hooks and Discord webhook hooks.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelCritical LogLevel = iota
	LevelError
	LevelWarn
	LevelSuccess
	LevelInfo
	LevelDebug
	LevelSystem
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelCritical:
		return "CRITICAL"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelSuccess:
		return "SUCCESS"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelSystem:
		return "SYSTEM"
	default:
		return "UNKNOWN"
	}
}

// Color returns the ANSI color code for the log level
func (l LogLevel) Color() string {
	switch l {
	case LevelCritical:
		return "\033[1;31m" // Bold Red
	case LevelError:
		return "\033[31m" // Red
	case LevelWarn:
		return "\033[33m" // Yellow
	case LevelSuccess:
		return "\033[32m" // Green
	case LevelInfo:
		return "\033[36m" // Cyan
	case LevelDebug:
		return "\033[35m" // Magenta
	case LevelSystem:
		return "\033[34m" // Blue
	default:
		return "\033[0m" // Reset
	}
}

// DiscordColor returns the Discord embed color for the log level
func (l LogLevel) DiscordColor() int {
	switch l {
	case LevelCritical, LevelError:
		return 0xFF0000
	case LevelWarn:
		return 0xFFFF00
	case LevelSuccess:
		return 0x00FF00
	case LevelInfo:
		return 0x0000FF
	case LevelDebug:
		return 0x800080
	case LevelSystem:
		return 0x808080
	default:
		return 0xFFFFFF
	}
}

// logrusLevel maps the bot levels onto logrus levels.
// Critical, Success and System have no logrus equivalent and travel as the "tag" field.
func (l LogLevel) logrusLevel() logrus.Level {
	switch l {
	case LevelCritical, LevelError:
		return logrus.ErrorLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelDebug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// ParseLevel converts a configuration value into a LogLevel, defaulting to LevelSystem (everything)
func ParseLevel(s string) LogLevel {
	for l := LevelCritical; l <= LevelSystem; l++ {
		if l.String() == strings.ToUpper(s) {
			return l
		}
	}
	return LevelSystem
}

const (
	colorReset = "\033[0m"
	tagField   = "tag"
	prefixKey  = "prefix"
)

// Fields are structured key/values attached to a log line
type Fields = logrus.Fields

// Logger is the main logging structure
type Logger struct {
	logrus    *logrus.Logger
	logFile   *os.File
	errorFile *os.File
	maxLevel  LogLevel
	mu        sync.RWMutex
}

var (
	logger *Logger
	once   sync.Once
)

// Init initializes the global logger instance
func Init(errorWebhook, logsWebhook string) *Logger {
	once.Do(func() {
		logger = NewLogger(errorWebhook, logsWebhook)
	})
	return logger
}

// Get returns the global logger instance.
// When Init was never called a console only logger is used.
func Get() *Logger {
	once.Do(func() {
		logger = newLogger(os.Stdout)
	})
	return logger
}

func newLogger(out io.Writer) *Logger {
	l := &Logger{
		logrus:   logrus.New(),
		maxLevel: LevelSystem,
	}
	l.logrus.SetOutput(out)
	l.logrus.SetFormatter(&lineFormatter{colors: true})
	l.logrus.SetLevel(logrus.DebugLevel)
	return l
}

// NewLogger creates a Logger writing to the console, logs/combined.log, logs/error.log
// and the given Discord webhooks (empty URLs disable the webhook).
func NewLogger(errorWebhook, logsWebhook string) *Logger {
	l := newLogger(os.Stdout)

	logsDir := filepath.Join(".", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		l.logrus.Errorf("Error creating logs directory: %v", err)
	}

	var err error
	l.logFile, err = os.OpenFile(filepath.Join(logsDir, "combined.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l.logrus.Errorf("Error opening combined log file: %v", err)
	} else {
		l.logrus.AddHook(newWriterHook(l.logFile, logrus.AllLevels))
	}

	l.errorFile, err = os.OpenFile(filepath.Join(logsDir, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		l.logrus.Errorf("Error opening error log file: %v", err)
	} else {
		l.logrus.AddHook(newWriterHook(l.errorFile, []logrus.Level{logrus.ErrorLevel}))
	}

	if errorWebhook != "" || logsWebhook != "" {
		l.logrus.AddHook(newWebhookHook(errorWebhook, logsWebhook))
	}

	return l
}

// SetLevel drops every message less severe than level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	l.maxLevel = level
	l.mu.Unlock()
}

func (l *Logger) enabled(level LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level <= l.maxLevel
}

// log is the internal logging function
func (l *Logger) log(level LogLevel, message, prefix string, fields Fields) {
	if !l.enabled(level) {
		return
	}
	entry := l.logrus.WithFields(fields).WithField(prefixKey, prefix).WithField(tagField, level)
	entry.Log(level.logrusLevel(), message)
}

// Close closes the log files
func (l *Logger) Close() {
	if l.logFile != nil {
		l.logFile.Close()
	}
	if l.errorFile != nil {
		l.errorFile.Close()
	}
}

// Logging methods

// Critical logs a critical message
func (l *Logger) Critical(message string, prefix string) {
	l.log(LevelCritical, message, prefix, nil)
}

// Error logs an error message
func (l *Logger) Error(message string, prefix string) {
	l.log(LevelError, message, prefix, nil)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, prefix string) {
	l.log(LevelWarn, message, prefix, nil)
}

// Success logs a success message
func (l *Logger) Success(message string, prefix string) {
	l.log(LevelSuccess, message, prefix, nil)
}

// Info logs an info message
func (l *Logger) Info(message string, prefix string) {
	l.log(LevelInfo, message, prefix, nil)
}

// Debug logs a debug message
func (l *Logger) Debug(message string, prefix string) {
	l.log(LevelDebug, message, prefix, nil)
}

// System logs a system message
func (l *Logger) System(message string, prefix string) {
	l.log(LevelSystem, message, prefix, nil)
}

// Entry is a logger bound to a prefix and a set of structured fields
type Entry struct {
	logger *Logger
	prefix string
	fields Fields
}

// WithFields returns an Entry that attaches fields to every message
func (l *Logger) WithFields(fields Fields, prefix string) *Entry {
	return &Entry{logger: l, prefix: prefix, fields: fields}
}

func (e *Entry) Critical(message string) { e.logger.log(LevelCritical, message, e.prefix, e.fields) }
func (e *Entry) Error(message string)    { e.logger.log(LevelError, message, e.prefix, e.fields) }
func (e *Entry) Warn(message string)     { e.logger.log(LevelWarn, message, e.prefix, e.fields) }
func (e *Entry) Success(message string)  { e.logger.log(LevelSuccess, message, e.prefix, e.fields) }
func (e *Entry) Info(message string)     { e.logger.log(LevelInfo, message, e.prefix, e.fields) }
func (e *Entry) Debug(message string)    { e.logger.log(LevelDebug, message, e.prefix, e.fields) }

// Package-level functions for convenience

// Critical logs a critical message using the global logger
func Critical(message string, prefix string) {
	Get().Critical(message, prefix)
}

// Error logs an error message using the global logger
func Error(message string, prefix string) {
	Get().Error(message, prefix)
}

// Warn logs a warning message using the global logger
func Warn(message string, prefix string) {
	Get().Warn(message, prefix)
}

// Success logs a success message using the global logger
func Success(message string, prefix string) {
	Get().Success(message, prefix)
}

// Info logs an info message using the global logger
func Info(message string, prefix string) {
	Get().Info(message, prefix)
}

// Debug logs a debug message using the global logger
func Debug(message string, prefix string) {
	Get().Debug(message, prefix)
}

// System logs a system message using the global logger
func System(message string, prefix string) {
	Get().System(message, prefix)
}

// WithFields returns an Entry on the global logger
func WithFields(fields Fields, prefix string) *Entry {
	return Get().WithFields(fields, prefix)
}
