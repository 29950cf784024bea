package profile

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestProfiler_Start_Disabled(t *testing.T) {
	tests := []struct {
		name string
		p    Profiler
	}{
		{"empty", Profiler{}},
		{"unknown_mode", Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.p.Start()

			if _, ok := s.(ignore); !ok {
				t.Errorf("Start() = %T, want a no-op", s)
			}

			s.Stop()
		})
	}
}

func TestModes_Sorted(t *testing.T) {
	if modes := Modes(); !slices.IsSorted(modes) {
		t.Errorf("Modes() = %v, not sorted", modes)
	}
}

func TestDo(t *testing.T) {
	type key struct{}

	ctx := context.WithValue(t.Context(), key{}, "deck")
	errStop := errors.New("stop")

	calls := 0

	err := Do(ctx, func(ctx context.Context) error {
		calls++

		if ctx.Value(key{}) != "deck" {
			t.Error("Do dropped the context values")
		}

		return errStop
	}, "entity", "fireball", "trigger", "play")

	if !errors.Is(err, errStop) {
		t.Errorf("Do() error = %v, want %v", err, errStop)
	}

	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestStopFunc(t *testing.T) {
	stopped := false

	var s Stopper = StopFunc(func() { stopped = true })
	s.Stop()

	if !stopped {
		t.Error("StopFunc did not call its function")
	}
}
