package log

import (
	"bytes"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestOptions(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"level", WithLevel(LevelWarn), func(c config) bool { return c.level == LevelWarn }},
		{"format", WithFormat(FormatJSON), func(c config) bool { return c.format == FormatJSON }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"pretty", WithPretty(false), func(c config) bool { return !c.pretty }},
		{"output", WithOutput(&buf), func(c config) bool { return c.output == &buf }},
		{"nil_output", WithOutput(nil), func(c config) bool { return c.output != nil }},
		{
			"defaults", WithDefaults(nil), func(c config) bool {
				return c.level == DefaultLevel && c.format == DefaultFormat &&
					c.pretty == DefaultPretty && c.output != nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c := tt.opt(config{}); !tt.check(c) {
				t.Errorf("option not applied: %+v", c)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{" TRACE ", LevelTrace},
		{"debug", LevelDebug},
		{"Info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"debug+2", LevelDebug + 2},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json":   FormatJSON,
		" JSON ": FormatJSON,
		"text":   FormatText,
		"yaml":   DefaultFormat,
	} {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got,
		[]string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("Levels() = %v", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestTimeFormatter(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"Kitchen", "2:30PM"},
		{"datetime", "2023-10-15 14:30:45"},
		{"2006-01-02", "2023-10-15"},
		{"none", ""},
		{"", ""},
		{"  \t ", ""},
	}

	for _, tt := range tests {
		if got := timeFormatter(tt.layout)(now); got != tt.want {
			t.Errorf("timeFormatter(%q) = %q, want %q", tt.layout, got, tt.want)
		}
	}
}

func TestHandler_OmitsTimestamp(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithTimeLayout("none"), WithFormat(FormatText), WithPretty(false)).
		Info("loaded", slog.Int("entities", 3))

	out := buf.String()
	if strings.Contains(out, "time=") {
		t.Errorf("timestamp present: %q", out)
	}

	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "entities=3") {
		t.Errorf("output = %q", out)
	}
}

func BenchmarkTimeFormatter(b *testing.B) {
	format := timeFormatter("RFC3339Nano")
	now := time.Now()

	for b.Loop() {
		_ = format(now)
	}
}
