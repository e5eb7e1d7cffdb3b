// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stdout)
//	logger.Info("evaluation started", slog.Int("rows", 3))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stdout,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// A configured logger never changes. [Logger.Wrap] derives a new logger from
// an existing configuration, and [Config] does the same for the package-level
// logger returned by [Default].
//
// # Context
//
// A logger can travel with a [context.Context] using [WithContext]. The
// package-level *Context functions log through [FromContext], which falls back
// to [Default] when the context carries no logger:
//
//	ctx = log.WithContext(ctx, logger.With(slog.String("run", id)))
//	log.InfoContext(ctx, "row evaluated")
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level
// are discarded.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and [FormatText].
// Either can be rendered for humans with [WithPretty], which colors keys and
// values when the output is a terminal.
package log
