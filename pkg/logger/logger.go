// Package logger is a thin wrapper over log/slog with the call shape used
// across the services: a message followed by alternating key/value pairs, or
// a bare error as the single trailing argument.
package logger

import (
	"log/slog"
	"os"
)

var log = slog.Default()

// Init configures the process logger. Production gets JSON, everything else
// a human-readable handler.
func Init(environment string) {
	var handler slog.Handler
	if environment == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	log = slog.New(handler)
}

// kv tolerates a single non-pair argument so call sites can pass a bare
// error after the message.
func kv(args []any) []any {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return []any{"error", err}
		}
		return []any{"detail", args[0]}
	}
	return args
}

func Debug(msg string, args ...any) {
	log.Debug(msg, kv(args)...)
}

func Info(msg string, args ...any) {
	log.Info(msg, kv(args)...)
}

func Warn(msg string, args ...any) {
	log.Warn(msg, kv(args)...)
}

func Error(msg string, args ...any) {
	log.Error(msg, kv(args)...)
}

func Fatal(msg string, args ...any) {
	log.Error(msg, kv(args)...)
	os.Exit(1)
}
