package profile

import "context"

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// StopFunc adapts a function to [Stopper].
type StopFunc func()

// Stop calls f.
func (f StopFunc) Stop() { f() }

// Profiler configures a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty or unknown mode writes no profile.
	Mode string
	// Path is the directory profiles are written to.
	Path string
	// Addr, if set, is the address the /debug/pprof/ HTTP handlers are
	// served on for the length of the session.
	Addr string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start begins profiling and returns the Stopper that ends it.
//
// If the binary was built without the pprof tag, or neither Mode nor Addr
// selects anything, Start returns a no-op. Stop is always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" && p.Addr == "" {
		return ignore{}
	}

	return start(p)
}

// Do calls fn with a context whose goroutine carries the profiler labels
// given as key-value pairs, so samples taken while fn runs can be filtered by
// them ("entity", "fireball"). Without the pprof tag, Do calls fn with ctx.
func Do(ctx context.Context, fn func(context.Context) error, kv ...string) error {
	return do(ctx, fn, kv)
}

type ignore struct{}

func (ignore) Stop() {}
