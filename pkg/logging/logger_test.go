package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	if logger == nil {
		t.Fatal("NewLogger() returned nil")
	}
	if logger.Logger == nil {
		t.Fatal("Logger.Logger is nil")
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected slog.Level
	}{
		{"debug level", "DEBUG", slog.LevelDebug},
		{"info level", "INFO", slog.LevelInfo},
		{"warn level", "WARN", slog.LevelWarn},
		{"warning level", "WARNING", slog.LevelWarn},
		{"error level", "ERROR", slog.LevelError},
		{"lowercase debug", "debug", slog.LevelDebug},
		{"invalid level", "INVALID", slog.LevelInfo},
		{"empty value", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AIRSIM_LOG_LEVEL", tt.envValue)
			level := getLogLevelFromEnv()
			if level != tt.expected {
				t.Errorf("getLogLevelFromEnv() = %v, want %v", level, tt.expected)
			}
		})
	}
}

func TestCorrelationID(t *testing.T) {
	t.Run("generate correlation ID", func(t *testing.T) {
		id1 := GenerateCorrelationID()
		id2 := GenerateCorrelationID()

		if id1 == "" || id2 == "" {
			t.Error("generated correlation ID should not be empty")
		}
		if id1 == id2 {
			t.Error("generated correlation IDs should be unique")
		}
	})

	t.Run("round trip through context", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "abc123")
		if got := GetCorrelationID(ctx); got != "abc123" {
			t.Errorf("expected abc123, got %s", got)
		}
	})

	t.Run("generated when empty", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "")
		if GetCorrelationID(ctx) == "" {
			t.Error("expected a generated correlation ID")
		}
	})

	t.Run("missing from context", func(t *testing.T) {
		if got := GetCorrelationID(context.Background()); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})
}

func TestWrapError(t *testing.T) {
	base := errors.New("connection refused")

	wrapped := WrapError(base, "telemetry connect to %s", "localhost:4610")
	if wrapped == nil {
		t.Fatal("expected wrapped error")
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match the original with errors.Is")
	}

	if WrapError(nil, "anything") != nil {
		t.Error("wrapping nil should return nil")
	}
}
