package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	rerrors "github.com/YuminosukeSato/regreg/pkg/errors"
)

// SetupLogger configures log/slog with a JSON handler on stderr that expands
// cockroachdb stack traces, and installs it as the package default logger.
// Standard output stays free for program results.
func SetupLogger(loglevel string) error {
	return SetupLoggerTo(os.Stderr, loglevel)
}

// SetupLoggerTo is SetupLogger writing to w.
func SetupLoggerTo(w io.Writer, loglevel string) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		// TestLogger や zerolog と同じキー名にそろえる
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == slog.MessageKey {
				attr.Key = "message"
			}
			return attr
		},
	}
	handler := slog.NewJSONHandler(w, &ops)
	logger := slog.New(WrapByErrFmtHandler(handler))
	slog.SetDefault(logger)
	SetLogger(NewSlogLogger(logger))
	return nil
}

// ToLogLevel parses "debug", "info", "warn" or "error".
func ToLogLevel(level string) (slog.Level, error) {
	switch level {
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, rerrors.NewValidationError("loglevel", "must be one of debug, info, warn, error", level)
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps l.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

func (s *SlogLogger) Debug(msg string, fields ...any) { s.l.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...any)  { s.l.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...any)  { s.l.Warn(msg, fields...) }

// Error turns a leading error field into ErrAttr so ErrFmtHandler can expand it.
func (s *SlogLogger) Error(msg string, fields ...any) {
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = append([]any{ErrAttr(err)}, fields[1:]...)
		}
	}
	s.l.Error(msg, fields...)
}

func (s *SlogLogger) With(fields ...any) Logger {
	return &SlogLogger{l: s.l.With(fields...)}
}

func (s *SlogLogger) Enabled(ctx context.Context, level Level) bool {
	return s.l.Enabled(ctx, slog.Level(level))
}
