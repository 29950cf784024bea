package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// levelColor returns the color a record of the given level is labeled with.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

// builtins returns the time, level, source, and message attributes of r,
// passed through the handler's ReplaceAttr. Attributes replaced by an empty
// attribute are dropped.
func builtins(opts *slog.HandlerOptions, r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))

	if opts.ReplaceAttr == nil {
		return attrs
	}

	out := attrs[:0]

	for _, a := range attrs {
		if a = opts.ReplaceAttr(nil, a); !a.Equal(slog.Attr{}) {
			out = append(out, a)
		}
	}

	return out
}

// qualify prefixes key with the open groups.
func qualify(groups []string, key string) string {
	if len(groups) == 0 {
		return key
	}

	return strings.Join(groups, ".") + "." + key
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range builtins(&h.opts, r) {
		if a.Key == slog.LevelKey {
			h.writeKey(buf, a.Key)
			buf.WriteString(levelColor(r.Level))
			buf.WriteString(a.Value.String())
			buf.WriteString(colorReset)

			continue
		}

		h.writeAttr(buf, a.Key, a.Value)
	}

	for _, a := range h.attrs {
		h.writeAttr(buf, a.Key, a.Value)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, qualify(h.groups, a.Key), a.Value)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(c.attrs, h.attrs)

	for _, a := range attrs {
		c.attrs = append(c.attrs, slog.Attr{Key: qualify(h.groups, a.Key), Value: a.Value})
	}

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')
}

// writeAttr writes key=value. Group values are flattened into dotted keys.
func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, key string, v slog.Value) {
	v = v.Resolve()

	if v.Kind() == slog.KindGroup {
		for _, a := range v.Group() {
			h.writeAttr(buf, key+"."+a.Key, a.Value)
		}

		return
	}

	if key == "" {
		return
	}

	h.writeKey(buf, key)
	h.writeValue(buf, v)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()

		// Multi-line values, such as caret diagnostics, continue on
		// indented lines so they stay aligned.
		if strings.Contains(s, "\n") {
			buf.WriteString(colorCyan)

			for line := range strings.SplitSeq(s, "\n") {
				buf.WriteString("\n    ")
				buf.WriteString(line)
			}

			buf.WriteString(colorReset)

			return
		}

		writeColored(buf, colorCyan, s)

	case slog.KindInt64:
		writeColored(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		writeColored(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		writeColored(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			writeColored(buf, colorGreen, "true")
		} else {
			writeColored(buf, colorRed, "false")
		}

	case slog.KindDuration:
		writeColored(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		writeColored(buf, colorBlue, v.Time().String())

	default:
		writeColored(buf, colorCyan, v.String())
	}
}

func writeColored(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

// prettyJSONHandler implements a pretty-printed JSON handler for log messages.
type prettyJSONHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	first := true

	for _, a := range builtins(&h.opts, r) {
		h.writeField(buf, a.Key, a.Value, 1, &first)
	}

	for _, a := range h.attrs {
		h.writeField(buf, a.Key, a.Value, 1, &first)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeField(buf, qualify(h.groups, a.Key), a.Value, 1, &first)

		return true
	})

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(c.attrs, h.attrs)

	for _, a := range attrs {
		c.attrs = append(c.attrs, slog.Attr{Key: qualify(h.groups, a.Key), Value: a.Value})
	}

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// writeField writes one "key": value member at the given nesting depth.
// Group values are written as nested objects.
func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	key string,
	v slog.Value,
	depth int,
	first *bool,
) {
	v = v.Resolve()

	if key == "" && v.Kind() != slog.KindGroup {
		return
	}

	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	indent := strings.Repeat("  ", depth)

	buf.WriteByte('\n')
	buf.WriteString(indent)
	writeColored(buf, colorGray, key)
	buf.WriteString(": ")

	if v.Kind() != slog.KindGroup {
		h.writeValue(buf, v)

		return
	}

	buf.WriteByte('{')

	inner := true
	for _, a := range v.Group() {
		h.writeField(buf, a.Key, a.Value, depth+1, &inner)
	}

	buf.WriteByte('\n')
	buf.WriteString(indent)
	buf.WriteByte('}')
}

func (h *prettyJSONHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		writeColored(buf, colorCyan, strconv.Quote(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		writeColored(buf, colorYellow, v.String())

	case slog.KindBool:
		if v.Bool() {
			writeColored(buf, colorGreen, "true")
		} else {
			writeColored(buf, colorRed, "false")
		}

	case slog.KindAny:
		if v.Any() == nil {
			writeColored(buf, colorGray, "null")

			return
		}

		writeColored(buf, colorCyan, strconv.Quote(v.String()))

	default:
		writeColored(buf, colorCyan, strconv.Quote(v.String()))
	}
}
