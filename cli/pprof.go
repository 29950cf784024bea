//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/actlang/log"
	"github.com/ardnew/actlang/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
	Addr string `help:"Serve /debug/pprof/ on this address" placeholder:"HOST:PORT"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

// start starts profiling if a mode or address was chosen. The returned stop
// is always safe to call.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" && f.Addr == "" {
		return func() {}
	}

	logger := log.FromContext(ctx).Named(profile.Tag)
	attrs := []slog.Attr{
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
		slog.String("addr", f.Addr),
	}

	logger.DebugContext(ctx, "pprof start", attrs...)

	p := profile.Profiler{Mode: f.Mode, Path: f.Dir, Addr: f.Addr, Quiet: true}.Start()

	return func() {
		p.Stop()
		logger.DebugContext(ctx, "pprof stop", attrs...)
	}
}
