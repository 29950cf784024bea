// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured once with functional options and is then
// immutable; [Logger.Wrap] and [Logger.With] derive new loggers. The zero
// Logger discards everything, so library packages accept one through an
// option and log unconditionally.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
//	logger.Trace("eval chain", slog.String("head", "+"))
//	logger.Error("action failed", slog.Any("error", err))
//
// Errors implementing [slog.LogValuer], such as the diagnostics of package
// lang, are rendered as groups of attributes.
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-expression
// tracing of the parser and evaluator. Messages below the configured level
// are discarded.
//
// # Pretty Output
//
// With [WithPretty], text output is colored and multi-line values continue
// on indented lines, so caret diagnostics stay aligned with their source
// line. JSON output is indented, with groups as nested objects.
//
// # Package-Level Logger
//
// [Debug], [Info], [Warn], and [Error] and their Context variants log
// through a default logger that writes to standard error. [Config] updates
// it.
package log
