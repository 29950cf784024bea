package stdlib

import (
	"context"
	"log/slog"

	"github.com/ardnew/actlang/lang"
	"github.com/ardnew/actlang/log"
)

// Decider supplies decisions the host makes on behalf of the player, such as
// which of several cards to keep. Decide blocks until a choice is made or
// ctx is done, and returns the index of the chosen option.
type Decider interface {
	Decide(ctx context.Context, prompt string, options []any) (int, error)
}

// DeciderFunc adapts a function to [Decider].
type DeciderFunc func(ctx context.Context, prompt string, options []any) (int, error)

// Decide calls f.
func (f DeciderFunc) Decide(ctx context.Context, prompt string, options []any) (int, error) {
	return f(ctx, prompt, options)
}

// Option configures [Install].
type Option func(*library)

// WithDecider sets the host decider the choose method waits on.
// Without one, choose fails.
func WithDecider(d Decider) Option {
	return func(l *library) {
		l.decider = d
	}
}

// WithLogger sets the logger the log method writes to and the library traces
// with. The default is the environment's logger.
func WithLogger(logger log.Logger) Option {
	return func(l *library) {
		l.logger = logger
		l.hasLogger = true
	}
}

type library struct {
	decider   Decider
	logger    log.Logger
	hasLogger bool
}

// Install registers the standard methods, variables, and converters in the
// innermost scope of env, replacing existing bindings of the same names.
func Install(env *lang.Environment, opts ...Option) {
	l := &library{}

	for _, opt := range opts {
		opt(l)
	}

	if !l.hasLogger {
		l.logger = env.Logger()
	}

	installConverters(env)

	groups := [][]lang.Method{
		l.arithmetic(),
		l.comparison(),
		l.control(),
		l.data(),
		l.host(),
	}

	count := 0

	for _, group := range groups {
		for _, m := range group {
			// Overwrite is set, so Define cannot fail.
			_ = env.Define(m, true)
			count++
		}
	}

	for name, v := range map[string]any{
		"true":  true,
		"false": false,
		"nil":   nil,
	} {
		_ = env.Set(name, v, true)
	}

	l.logger.Trace("install stdlib",
		slog.Int("methods", count),
		slog.Int("depth", env.Depth()))
}

// New returns an environment with the standard library installed in its
// ground scope.
func New(opts ...Option) *lang.Environment {
	var logger log.Logger

	probe := &library{}
	for _, opt := range opts {
		opt(probe)
	}

	if probe.hasLogger {
		logger = probe.logger
	}

	env := lang.NewEnvironment(lang.WithLogger(logger))
	Install(env, opts...)

	return env
}

// method is shorthand for lang.NewMethod.
func method(name string, arity int, rest bool, fn lang.Func) lang.Method {
	return lang.NewMethod(name, arity, rest, fn)
}
