// Package logger_test contains tests for the logger package
package logger_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/platform/logger"
)

func TestSetupReturnsLoggerForEachLevel(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error", "DEBUG", "Info"}

	for _, level := range levels {
		t.Run(level, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{LogLevel: level})
			if err != nil {
				t.Fatalf("Setup(%q) returned error: %v", level, err)
			}
			if log == nil {
				t.Fatalf("Setup(%q) returned nil logger", level)
			}
		})
	}
}

func TestSetupFallsBackToInfoOnInvalidLevel(t *testing.T) {
	log, err := logger.Setup(config.ServerConfig{LogLevel: "verbose"})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if log == nil {
		t.Fatal("Setup returned nil logger")
	}
	if !log.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("fallback logger should log at info level")
	}
	if log.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("fallback logger should not log at debug level")
	}
}

func TestFromContextRoundTrip(t *testing.T) {
	custom := slog.Default().With(slog.String("component", "test"))

	ctx := logger.WithContext(context.Background(), custom)
	if got := logger.FromContext(ctx); got != custom {
		t.Error("FromContext did not return the logger stored with WithContext")
	}
}

func TestFromContextDefaults(t *testing.T) {
	if got := logger.FromContext(context.Background()); got == nil {
		t.Error("FromContext on a bare context should return the default logger, got nil")
	}
	//nolint:staticcheck // deliberately testing nil context handling
	if got := logger.FromContext(nil); got == nil {
		t.Error("FromContext on a nil context should return the default logger, got nil")
	}
}
