package log

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log message.
type Level slog.Level

// Log levels. Trace sits below debug and is used for per-expression tracing
// of the parser and evaluator.
const (
	LevelTrace Level = Level(slog.LevelDebug - 4) // trace
	LevelDebug Level = Level(slog.LevelDebug)     // debug
	LevelInfo  Level = Level(slog.LevelInfo)      // info
	LevelWarn  Level = Level(slog.LevelWarn)      // warn
	LevelError Level = Level(slog.LevelError)     // error
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// Levels returns the names of the log levels from least to most severe.
func Levels() iter.Seq[string] { return names(levels) }

// ParseLevel parses a level name, case-insensitively, optionally followed by
// a "+" or "-" and an integer offset as described by [slog.Level.UnmarshalText].
// It returns [DefaultLevel] if s is not a level.
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format is the encoding of log records.
type Format int

// Log formats.
const (
	FormatText Format = iota // text
	FormatJSON               // json
)

// DefaultFormat is the default log format.
const DefaultFormat = FormatText

var formats = []Format{FormatText, FormatJSON}

// Formats returns the names of the log formats.
func Formats() iter.Seq[string] { return names(formats) }

// ParseFormat parses a format name. It returns [DefaultFormat] if s is not a
// format.
func ParseFormat(s string) Format {
	s = strings.ToLower(strings.TrimSpace(s))

	for _, f := range formats {
		if f.String() == s {
			return f
		}
	}

	return DefaultFormat
}

func names[T fmt.Stringer](values []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range values {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// FormatTime renders the timestamp of a record. An empty result omits the
// timestamp.
type FormatTime func(time.Time) string

// Defaults of the options not covered by [DefaultLevel] and [DefaultFormat].
const (
	DefaultTimeLayout = time.RFC3339
	DefaultCaller     = false
	DefaultPretty     = true
)

// config holds the options of a Logger. It is copied by value; the mutex
// pointer guards the copy held by one Logger.
type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// makeConfig returns the default config for w updated by opts.
func makeConfig(w io.Writer, opts ...Option) config {
	return config{mutex: &sync.RWMutex{}}.clone(append([]Option{WithDefaults(w)}, opts...)...)
}

// clone returns a copy of c with its own mutex, updated by opts.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// handler returns the slog.Handler for c.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.format == FormatJSON && c.pretty:
		return newPrettyJSONHandler(c.output, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case c.format == FormatText && c.pretty:
		return newPrettyTextHandler(c.output, opts)
	case c.format == FormatText:
		return slog.NewTextHandler(c.output, opts)
	default:
		return slog.DiscardHandler
	}
}

// replaceAttr applies the time layout and names levels with [Level.String],
// so trace records read "TRACE" instead of "DEBUG-4".
func (c config) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok || c.formatTime == nil {
			return a
		}

		s := c.formatTime(t)
		if s == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(s)

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

// WithDefaults returns an option that restores every default and writes to
// w, or discards output if w is nil.
func WithDefaults(w io.Writer) Option {
	return update(func(c *config) {
		c.output = orDiscard(w)
		c.formatTime = timeFormatter(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty
	})
}

// WithOutput returns an option that writes to w, or discards output if w is
// nil.
func WithOutput(w io.Writer) Option {
	return update(func(c *config) { c.output = orDiscard(w) })
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}

// WithLevel returns an option that sets the minimum level written.
func WithLevel(level Level) Option {
	return update(func(c *config) { c.level = level })
}

// WithFormat returns an option that sets the output format.
func WithFormat(format Format) Option {
	return update(func(c *config) { c.format = format })
}

// WithTimeLayout returns an option that sets the timestamp layout.
//
// The layout is either a name, matched ignoring case and punctuation
// ("RFC3339", "rfc-3339-nano", "kitchen", "ms"), or a layout passed verbatim
// to [time.Time.Format]. A blank layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	format := timeFormatter(layout)

	return update(func(c *config) { c.formatTime = format })
}

// WithCaller returns an option that adds the source location of the caller
// to every record.
func WithCaller(enable bool) Option {
	return update(func(c *config) { c.caller = enable })
}

// WithPretty returns an option that enables colored output. Text records
// drop quoting where it is not needed and print multi-line values, such as
// source diagnostics, on indented lines of their own. JSON records are
// indented.
func WithPretty(enable bool) Option {
	return update(func(c *config) { c.pretty = enable })
}

// timeLayouts maps layout names, reduced to lowercase letters and digits,
// to layouts.
var timeLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc1123":     time.RFC1123,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
	"stampnano":   time.StampNano,
	"ns":          time.StampNano,
	"none":        "",
}

func timeFormatter(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if std, ok := timeLayouts[key]; ok {
		layout = std
	} else if key == "" {
		layout = ""
	}

	if layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
