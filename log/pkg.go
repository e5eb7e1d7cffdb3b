package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// DefaultContextProvider returns the context used by the context-unaware
// logging functions and methods.
var DefaultContextProvider = context.TODO

var std atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	std.Store(&l)
}

// Default returns the package-level logger.
func Default() Logger { return *std.Load() }

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) { std.Store(&l) }

// Config reconfigures the package-level logger by applying opts on top of its
// current configuration, and returns the new logger.
func Config(opts ...Option) Logger {
	l := Default().Wrap(opts...)
	SetDefault(l)

	return l
}

// With returns the package-level logger with the given attributes added.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

// Trace logs a message at Trace level using the package-level logger.
func Trace(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelTrace, msg, attrs...)
}

// Debug logs a message at Debug level using the package-level logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelDebug, msg, attrs...)
}

// Info logs a message at Info level using the package-level logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelInfo, msg, attrs...)
}

// Warn logs a message at Warn level using the package-level logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelWarn, msg, attrs...)
}

// Error logs a message at Error level using the package-level logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().logDepth(DefaultContextProvider(), 0, LevelError, msg, attrs...)
}

// TraceContext logs at Trace level using the logger carried by ctx.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	FromContext(ctx).logDepth(ctx, 0, LevelTrace, msg, attrs...)
}

// DebugContext logs at Debug level using the logger carried by ctx.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	FromContext(ctx).logDepth(ctx, 0, LevelDebug, msg, attrs...)
}

// InfoContext logs at Info level using the logger carried by ctx.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	FromContext(ctx).logDepth(ctx, 0, LevelInfo, msg, attrs...)
}

// WarnContext logs at Warn level using the logger carried by ctx.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	FromContext(ctx).logDepth(ctx, 0, LevelWarn, msg, attrs...)
}

// ErrorContext logs at Error level using the logger carried by ctx.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	FromContext(ctx).logDepth(ctx, 0, LevelError, msg, attrs...)
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying l.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger carried by ctx, or the package-level logger
// if there is none.
func FromContext(ctx context.Context) Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(Logger); ok {
			return l
		}
	}

	return Default()
}
