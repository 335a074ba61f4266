// Package log provides a structured logging interface for regreg.
//
// The interface is slog-compatible so that any backend can sit behind it. The
// default backend is zerolog (see NewZerologLogger); tests use TestLogger.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ModelNameKey, "FISTA",
//	    log.ComponentKey, "fista",
//	)
//	logger.Info("fit completed",
//	    log.IterationKey, 120,
//	    log.LossKey, 3.25,
//	)

package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. With returns a child logger
// carrying pre-populated fields.
type Logger interface {
	// Debug logs detailed diagnostic information, such as per-iteration solver state.
	// Callers should guard expensive field construction with Enabled.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs conditions that do not stop the caller, such as non-convergence.
	Warn(msg string, fields ...any)

	// Error logs an error condition. If the first field is an error it is
	// attached as the record's error (with its stack trace where available).
	//
	// Example:
	//   logger.Error("fit failed", err, log.OperationKey, log.OperationFit)
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
