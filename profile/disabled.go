//go:build !pprof

package profile

import "context"

// Modes returns the supported profiling modes. Without the pprof build tag
// there are none.
func Modes() []string { return nil }

func start(Profiler) Stopper { return ignore{} }

func do(ctx context.Context, fn func(context.Context) error, _ []string) error {
	return fn(ctx)
}
