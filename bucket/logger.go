package bucket

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/sirupsen/logrus"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for per-window and per-batch detail.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for epoch progress.
	LogLevelInfo
	// LogLevelWarn is for batches that exceed the token budget on their own.
	LogLevelWarn
	// LogLevelError is for errors that end a stream.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger defines the interface for logging within the iterator.
// The Logger is optional - if not provided, no logging occurs.
type Logger interface {
	// Log writes a log message at the specified level.
	// The message is formatted using fmt.Sprintf if args are provided.
	Log(level LogLevel, format string, args ...interface{})

	// Debug logs a debug-level message.
	Debug(format string, args ...interface{})

	// Info logs an info-level message.
	Info(format string, args ...interface{})

	// Warn logs a warning-level message.
	Warn(format string, args ...interface{})

	// Error logs an error-level message.
	Error(format string, args ...interface{})
}

// NoOpLogger is a logger that discards all log messages.
// This is the default logger when none is specified.
type NoOpLogger struct{}

// Log implements the Logger interface.
func (n *NoOpLogger) Log(level LogLevel, format string, args ...interface{}) {}

// Debug implements the Logger interface.
func (n *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info implements the Logger interface.
func (n *NoOpLogger) Info(format string, args ...interface{}) {}

// Warn implements the Logger interface.
func (n *NoOpLogger) Warn(format string, args ...interface{}) {}

// Error implements the Logger interface.
func (n *NoOpLogger) Error(format string, args ...interface{}) {}

// SlogLogger routes log messages to a *slog.Logger.
type SlogLogger struct {
	Logger *slog.Logger
}

// NewSlogLogger wraps l. If l is nil, slog.Default() is used.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{Logger: l}
}

// NewSimpleLogger creates a logger writing human-readable lines to stderr,
// discarding messages below minLevel.
func NewSimpleLogger(minLevel LogLevel) *SlogLogger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: minLevel.slogLevel(),
	})
	return &SlogLogger{Logger: slog.New(handler).With("component", "bucket")}
}

// Log implements the Logger interface.
func (s *SlogLogger) Log(level LogLevel, format string, args ...interface{}) {
	lvl := level.slogLevel()
	if !s.Logger.Enabled(context.Background(), lvl) {
		return
	}
	s.Logger.Log(context.Background(), lvl, fmt.Sprintf(format, args...))
}

// Debug implements the Logger interface.
func (s *SlogLogger) Debug(format string, args ...interface{}) {
	s.Log(LogLevelDebug, format, args...)
}

// Info implements the Logger interface.
func (s *SlogLogger) Info(format string, args ...interface{}) {
	s.Log(LogLevelInfo, format, args...)
}

// Warn implements the Logger interface.
func (s *SlogLogger) Warn(format string, args ...interface{}) {
	s.Log(LogLevelWarn, format, args...)
}

// Error implements the Logger interface.
func (s *SlogLogger) Error(format string, args ...interface{}) {
	s.Log(LogLevelError, format, args...)
}

// LogrusLogger routes log messages to a logrus.FieldLogger.
type LogrusLogger struct {
	Logger logrus.FieldLogger
}

// NewLogrusLogger wraps l. If l is nil, the logrus standard logger is used.
func NewLogrusLogger(l logrus.FieldLogger) *LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusLogger{Logger: l}
}

// Log implements the Logger interface.
func (l *LogrusLogger) Log(level LogLevel, format string, args ...interface{}) {
	switch level {
	case LogLevelDebug:
		l.Logger.Debugf(format, args...)
	case LogLevelWarn:
		l.Logger.Warnf(format, args...)
	case LogLevelError:
		l.Logger.Errorf(format, args...)
	default:
		l.Logger.Infof(format, args...)
	}
}

// Debug implements the Logger interface.
func (l *LogrusLogger) Debug(format string, args ...interface{}) {
	l.Log(LogLevelDebug, format, args...)
}

// Info implements the Logger interface.
func (l *LogrusLogger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warn implements the Logger interface.
func (l *LogrusLogger) Warn(format string, args ...interface{}) {
	l.Log(LogLevelWarn, format, args...)
}

// Error implements the Logger interface.
func (l *LogrusLogger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}
