package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.caller != DefaultCaller {
		t.Errorf("caller = %v, want %v", logger.caller, DefaultCaller)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		log   func(Logger)
		want  bool
	}{
		{"trace below debug", LevelDebug, func(l Logger) { l.Trace("msg") }, false},
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("msg") }, true},
		{"debug at info", LevelInfo, func(l Logger) { l.Debug("msg") }, false},
		{"info at info", LevelInfo, func(l Logger) { l.Info("msg") }, true},
		{"warn at error", LevelError, func(l Logger) { l.Warn("msg") }, false},
		{"error at error", LevelError, func(l Logger) { l.Error("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.level), WithPretty(false)))

			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("logged = %v, want %v: %q", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))
	logger.Trace("scan", slog.Int("offset", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}

	if record["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", record["level"])
	}

	if record["offset"] != float64(3) {
		t.Errorf("offset = %v, want 3", record["offset"])
	}
}

func TestLogger_Caller(t *testing.T) {
	for _, enable := range []bool{true, false} {
		var buf bytes.Buffer

		Make(&buf, WithCaller(enable), WithPretty(false)).Info("msg")

		if got := strings.Contains(buf.String(), "log_test.go"); got != enable {
			t.Errorf("WithCaller(%v): source present = %v: %q", enable, got, buf.String())
		}
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatText), WithPretty(pretty)).
			With(slog.String("entity", "mill"))
		logger.Info("run action")

		if !strings.Contains(buf.String(), "entity") || !strings.Contains(buf.String(), "mill") {
			t.Errorf("pretty=%v: attribute missing: %q", pretty, buf.String())
		}
	}
}

type diagnostic struct{}

func (diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", "unresolved identifier"),
		slog.Int("offset", 4),
	)
}

func TestPrettyText_Groups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(true), WithTimeLayout("none"))
	logger.Error("eval failed", slog.Any("err", diagnostic{}))

	out := buf.String()

	for _, want := range []string{"err.error", "unresolved identifier", "err.offset", "ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}

	if strings.Contains(out, "time") {
		t.Errorf("output has a timestamp with layout none: %q", out)
	}
}

func TestPrettyText_MultilineValue(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(true), WithTimeLayout("none"))
	logger.Error("parse failed", slog.String("detail", "  1 | + 1 (\n        ^"))

	if !strings.Contains(buf.String(), "\n      1 | + 1 (\n            ^") {
		t.Errorf("multi-line value not indented: %q", buf.String())
	}
}

func TestPrettyJSON_NestedGroups(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true), WithTimeLayout("none"))
	logger.Info("eval failed", slog.Any("err", diagnostic{}))

	out := buf.String()
	if !strings.Contains(out, "err"+colorReset+": {") {
		t.Errorf("group not nested: %q", out)
	}

	if !strings.Contains(out, `"unresolved identifier"`) {
		t.Errorf("string value not quoted: %q", out)
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var logger Logger

	logger.Trace("trace")
	logger.Info("info", slog.String("key", "value"))
	logger.With(slog.String("key", "value")).Error("error")

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var (
		buf safeBuffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithPretty(false))

	for i := range 10 {
		wg.Go(func() {
			logger.With(slog.Int("worker", i)).Info("concurrent")
			logger.Wrap(WithLevel(LevelDebug)).Debug("wrapped")
		})
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("logged %d lines, want 20", got)
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelDebug + 2, "debug+2"},
		{LevelError + 4, "error+4"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}

		if tt.level.String() == tt.want && !strings.Contains(tt.want, "+") {
			if got := ParseLevel(tt.want); got != tt.level {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.want, got, tt.level)
			}
		}
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false))

	for b.Loop() {
		buf.Reset()
		logger.Info("benchmark", slog.Int("n", 1))
	}
}

func BenchmarkLogger_Info_Pretty(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))

	for b.Loop() {
		buf.Reset()
		logger.Info("benchmark", slog.Int("n", 1), slog.Any("err", diagnostic{}))
	}
}

// safeBuffer is a bytes.Buffer safe for concurrent writes.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestLogger_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithPretty(false)).
		Named("content").
		WithGroup("action").
		Info("run", slog.String("entity", "fireball"), slog.String("trigger", "play"))

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if got[ComponentKey] != "content" {
		t.Errorf("%s = %v, want content", ComponentKey, got[ComponentKey])
	}

	action, ok := got["action"].(map[string]any)
	if !ok || action["entity"] != "fireball" || action["trigger"] != "play" {
		t.Errorf("action group = %v", got["action"])
	}
}

func TestLogger_Allows(t *testing.T) {
	logger := Make(nil, WithLevel(LevelDebug))

	if logger.Allows(LevelTrace) {
		t.Error("debug logger allows trace")
	}

	if !logger.Allows(LevelDebug) || !logger.Allows(LevelError) {
		t.Error("debug logger rejects debug or error")
	}

	if (Logger{}).Allows(LevelError) {
		t.Error("zero logger allows error")
	}
}

func TestLogger_Wrap_ZeroValue(t *testing.T) {
	var buf bytes.Buffer

	logger := Logger{}.Wrap(WithOutput(&buf), WithFormat(FormatText), WithPretty(false))
	logger.Info("wrapped")

	if !strings.Contains(buf.String(), "wrapped") {
		t.Errorf("output = %q", buf.String())
	}
}
