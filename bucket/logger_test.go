package bucket_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/MasterOfBinary/bucketbatch/bucket"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    bucket.LogLevel
		expected string
	}{
		{bucket.LogLevelDebug, "DEBUG"},
		{bucket.LogLevelInfo, "INFO"},
		{bucket.LogLevelWarn, "WARN"},
		{bucket.LogLevelError, "ERROR"},
		{bucket.LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNoOpLogger(t *testing.T) {
	logger := &bucket.NoOpLogger{}

	// These should not panic
	logger.Log(bucket.LogLevelInfo, "test")
	logger.Debug("debug %d", 1)
	logger.Info("info %s", "test")
	logger.Warn("warn %v", true)
	logger.Error("error %f", 3.14)
}

func logAll(logger bucket.Logger) {
	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message %d", 7)
}

func TestSlogLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       slog.Level
		contains    []string
		notContains []string
	}{
		{
			name:     "debug level allows all",
			level:    slog.LevelDebug,
			contains: []string{"level=DEBUG msg=\"debug message\"", "level=INFO", "level=WARN", "msg=\"error message 7\""},
		},
		{
			name:        "info level filters debug",
			level:       slog.LevelInfo,
			contains:    []string{"msg=\"info message\""},
			notContains: []string{"debug message"},
		},
		{
			name:        "error level only shows errors",
			level:       slog.LevelError,
			contains:    []string{"level=ERROR"},
			notContains: []string{"debug message", "info message", "warn message"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.level})
			logAll(bucket.NewSlogLogger(slog.New(handler)))

			output := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("output missing expected string %q\nGot: %s", want, output)
				}
			}
			for _, notWant := range tt.notContains {
				if strings.Contains(output, notWant) {
					t.Errorf("output contains unexpected string %q\nGot: %s", notWant, output)
				}
			}
		})
	}
}

func TestNewSlogLogger_Nil(t *testing.T) {
	if l := bucket.NewSlogLogger(nil); l.Logger == nil {
		t.Error("NewSlogLogger(nil) has no logger")
	}
	if l := bucket.NewSimpleLogger(bucket.LogLevelWarn); l.Logger == nil {
		t.Error("NewSimpleLogger has no logger")
	}
}

func TestLogrusLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	logAll(bucket.NewLogrusLogger(l.WithField("component", "bucket")))

	output := buf.String()
	for _, want := range []string{
		"level=info msg=\"info message\"",
		"level=warning msg=\"warn message\"",
		"level=error msg=\"error message 7\"",
		"component=bucket",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
	if strings.Contains(output, "debug message") {
		t.Errorf("debug message logged at info level\nGot: %s", output)
	}
}
