package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// ComponentKey is the attribute key [Logger.Named] sets.
const ComponentKey = "component"

// Logger is a leveled structured logger. It is safe for concurrent use, and
// the zero Logger discards every message.
type Logger struct {
	*slog.Logger
	config
}

// Make creates a new [Logger] that writes to w. Without options it uses
// [DefaultFormat], [DefaultLevel], [DefaultTimeLayout], [DefaultPretty], and
// no caller information.
func Make(w io.Writer, opts ...Option) Logger {
	return build(makeConfig(w, opts...))
}

func build(cfg config) Logger {
	return Logger{config: cfg, Logger: slog.New(cfg.handler())}
}

// Wrap returns a logger with the configuration of l updated by opts.
// Attributes and groups added to l are not carried over. Wrapping the zero
// Logger starts from the defaults with output discarded.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.mutex == nil {
		return Make(nil, opts...)
	}

	// Options run against the clone before anything else can see its mutex.
	l.mutex.RLock()
	cfg := l.clone(opts...)
	l.mutex.RUnlock()

	return build(cfg)
}

// With returns a logger that adds attrs to every message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	return l.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup returns a logger that nests the attributes of every message
// under name.
func (l Logger) WithGroup(name string) Logger {
	return l.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

// Named returns a logger that tags every message with the component that
// wrote it, such as "eval" or "repl".
func (l Logger) Named(component string) Logger {
	return l.With(slog.String(ComponentKey, component))
}

func (l Logger) derive(fn func(slog.Handler) slog.Handler) Logger {
	if l.Logger == nil {
		return l
	}

	cfg, _ := l.settings()
	cfg = cfg.clone()

	return Logger{config: cfg, Logger: slog.New(fn(l.Handler()))}
}

// settings returns a snapshot of the configuration of l, or false for the
// zero Logger.
func (l Logger) settings() (config, bool) {
	if l.Logger == nil || l.mutex == nil {
		return config{}, false
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.config, true
}

// Level returns the minimum level l writes.
func (l Logger) Level() Level {
	if cfg, ok := l.settings(); ok {
		return cfg.level
	}

	return DefaultLevel
}

// Format returns the output format of l.
func (l Logger) Format() Format {
	if cfg, ok := l.settings(); ok {
		return cfg.format
	}

	return DefaultFormat
}

// Allows reports whether l writes messages at level. Callers use it to skip
// building attributes that are expensive to render.
func (l Logger) Allows(level Level) bool {
	return l.Logger != nil && l.Handler().Enabled(context.Background(), slog.Level(level))
}

// TraceContext logs at [LevelTrace].
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelTrace, msg, attrs)
}

// Trace logs at [LevelTrace].
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug].
func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelDebug, msg, attrs)
}

// Debug logs at [LevelDebug].
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo].
func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelInfo, msg, attrs)
}

// Info logs at [LevelInfo].
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn].
func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelWarn, msg, attrs)
}

// Warn logs at [LevelWarn].
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError].
func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, LevelError, msg, attrs)
}

// Error logs at [LevelError].
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(DefaultContextProvider(), LevelError, msg, attrs)
}

// callerDepth is the number of frames between runtime.Callers and the code
// that called a logging method: log, then the exported method.
const callerDepth = 3

// log writes one record. Every exported logging method and package-level
// function calls it directly, so the caller is always callerDepth frames up.
func (l Logger) log(ctx context.Context, level Level, msg string, attrs []slog.Attr) {
	if l.Logger == nil {
		return
	}

	h := l.Handler()
	if !h.Enabled(ctx, slog.Level(level)) {
		return
	}

	var pcs [1]uintptr

	runtime.Callers(callerDepth, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])
	r.AddAttrs(attrs...)

	_ = h.Handle(ctx, r)
}
