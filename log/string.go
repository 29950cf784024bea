package log

import (
	"log/slog"
	"strconv"
	"strings"
)

// String returns the lowercase name of the level. Levels between the named
// ones are rendered as an offset from the nearest lower name, as in
// "debug+2".
func (l Level) String() string {
	names := []struct {
		level Level
		name  string
	}{
		{LevelError, "error"},
		{LevelWarn, "warn"},
		{LevelInfo, "info"},
		{LevelDebug, "debug"},
		{LevelTrace, "trace"},
	}

	for _, n := range names {
		if l == n.level {
			return n.name
		}

		if l > n.level {
			return n.name + "+" + strconv.Itoa(int(l-n.level))
		}
	}

	return strings.ToLower(slog.Level(l).String())
}

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}
