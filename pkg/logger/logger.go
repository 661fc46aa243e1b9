// Package logger provides the structured, levelled logger used across the
// storefront, built on log/slog.
//
// In production (APP_ENV=production) records are emitted as JSON for log
// aggregators; everywhere else a human-readable text handler is used.
// When MONGO_LOG_URI is configured, records are additionally shipped to a
// MongoDB collection by an asynchronous handler (see mongo_handler.go).
package logger

import (
	"log/slog"
	"os"

	"github.com/trancendwear/trancend/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// Attach fans records out to h in addition to the current handler. The
// server uses it to wire the MongoDB log shipper after config loads.
func Attach(h slog.Handler) {
	L = slog.New(NewMultiHandler(L.Handler(), h))
	slog.SetDefault(L)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
