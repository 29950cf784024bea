//go:build pprof

package profile

import (
	"context"
	"maps"
	"net/http"
	_ "net/http/pprof" // register /debug/pprof/ handlers on http.DefaultServeMux
	"runtime/pprof"
	"slices"
	"sync"
	"time"

	"github.com/pkg/profile"
)

// Modes returns the supported profiling modes in sorted order.
var Modes = sync.OnceValue(func() []string {
	return slices.Sorted(maps.Keys(modes))
})

var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// shutdownTimeout bounds how long Stop waits for HTTP profile requests in
// flight.
const shutdownTimeout = 5 * time.Second

func start(p Profiler) Stopper {
	var stops []Stopper

	if fn, ok := modes[p.Mode]; ok {
		opts := []func(*profile.Profile){fn, profile.NoShutdownHook}

		if p.Path != "" {
			opts = append(opts, profile.ProfilePath(p.Path))
		}

		if p.Quiet {
			opts = append(opts, profile.Quiet)
		}

		stops = append(stops, profile.Start(opts...))
	}

	if p.Addr != "" {
		stops = append(stops, serve(p.Addr))
	}

	if len(stops) == 0 {
		return ignore{}
	}

	var once sync.Once

	return StopFunc(func() {
		once.Do(func() {
			for _, s := range slices.Backward(stops) {
				s.Stop()
			}
		})
	})
}

// serve runs the default mux, which holds the pprof handlers, on addr.
func serve(addr string) Stopper {
	srv := &http.Server{Addr: addr, ReadHeaderTimeout: shutdownTimeout}

	done := make(chan struct{})

	go func() {
		defer close(done)

		// A listen failure leaves profiling to files; Shutdown still returns.
		_ = srv.ListenAndServe()
	}()

	return StopFunc(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(ctx)
		<-done
	})
}

func do(ctx context.Context, fn func(context.Context) error, kv []string) error {
	if len(kv) < 2 {
		return fn(ctx)
	}

	var err error

	pprof.Do(ctx, pprof.Labels(kv[:len(kv)&^1]...), func(ctx context.Context) {
		err = fn(ctx)
	})

	return err
}
