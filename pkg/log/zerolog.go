package log

import (
	"context"
	"io"
	"os"
	"sync"

	rerrors "github.com/YuminosukeSato/regreg/pkg/errors"
	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger creates a JSON logger writing to w at the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{zl: zl}
}

// FromZerolog wraps an already configured zerolog.Logger.
func FromZerolog(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return &ZerologLogger{zl: zerolog.Nop()}
}

// Debug implements Logger.Debug.
func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

// Info implements Logger.Info.
func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.zl.Info().Fields(fields).Msg(msg)
}

// Warn implements Logger.Warn.
func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

// Error implements Logger.Error. A leading error field is attached with Err and,
// for cockroachdb errors, its stack trace.
func (l *ZerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceAttrKey, st)
			}
			fields = fields[1:]
		}
	}
	ev.Fields(fields).Msg(msg)
}

// With implements Logger.With.
func (l *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.zl.GetLevel() <= toZerologLevel(level)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewZerologLogger(os.Stderr, LevelWarn)
)

// GetLogger returns the package-wide default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// GetLoggerWithName returns the default logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return GetLogger().With(ComponentKey, name)
}

// SetLogger replaces the package-wide default logger. A nil logger silences output.
func SetLogger(l Logger) {
	if l == nil {
		l = NewNopLogger()
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

func init() {
	// Warnings raised through pkg/errors.Warn end up in the default logger.
	rerrors.SetZerologWarnFunc(func(w error) {
		GetLogger().Warn(w.Error(), "warning", w)
	})
}
