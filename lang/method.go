package lang

import (
	"context"
	"fmt"
)

// Method is a callable bound to a name in an [Environment].
//
// The evaluator collects Arity positional arguments for every call, and all
// remaining arguments as the rest list when Rest reports true. Call may block
// (for example, waiting on a decision from the host); the evaluator waits for
// it to return before evaluating anything else in the chain. Implementations
// should honor cancellation of ctx.
type Method interface {
	Name() string
	Arity() int
	Rest() bool
	Call(ctx context.Context, call *Call) (any, error)
}

// Call carries the arguments of one method invocation.
type Call struct {
	Env  *Environment
	Eval *Evaluator

	// Args holds exactly Arity evaluated positional arguments.
	Args []any
	// Rest holds the remaining arguments of a rest method.
	Rest []any
	// Options maps option names to their values. A flag given without a
	// value maps to true.
	Options map[string]any

	// Span covers the whole call: the method name through its last argument.
	Span Span

	argSpans  []Span
	restSpans []Span
}

// ArgSpan returns the source span of positional argument i.
func (c *Call) ArgSpan(i int) Span {
	if i >= 0 && i < len(c.argSpans) {
		return c.argSpans[i]
	}

	return c.Span
}

// RestSpan returns the source span of rest argument i.
func (c *Call) RestSpan(i int) Span {
	if i >= 0 && i < len(c.restSpans) {
		return c.restSpans[i]
	}

	return c.Span
}

// Has reports whether the option name was given.
func (c *Call) Has(name string) bool {
	_, ok := c.Options[name]

	return ok
}

// Fail returns an evaluation error located at the whole call.
func (c *Call) Fail(err error) error {
	return newEvalError(c.Span, err)
}

// Arg converts positional argument i to T.
func Arg[T any](c *Call, i int) (T, error) {
	var zero T

	if i < 0 || i >= len(c.Args) {
		return zero, newEvalError(c.Span, ErrArity.Errorf("missing argument %d", i+1))
	}

	v, err := ExpectConvert[T](c.Env, c.Args[i])
	if err != nil {
		return zero, newEvalError(c.ArgSpan(i), fmt.Errorf("argument %d: %w", i+1, err))
	}

	return v, nil
}

// ArgDefault converts positional argument i to T, substituting def when the
// caller passed the placeholder _.
func ArgDefault[T any](c *Call, i int, def T) (T, error) {
	var zero T

	if i < 0 || i >= len(c.Args) {
		return zero, newEvalError(c.Span, ErrArity.Errorf("missing argument %d", i+1))
	}

	v, err := ConvertDefault(c.Env, c.Args[i], def)
	if err != nil {
		return zero, newEvalError(c.ArgSpan(i), fmt.Errorf("argument %d: %w", i+1, err))
	}

	return v, nil
}

// RestArgs converts every rest argument to T.
func RestArgs[T any](c *Call) ([]T, error) {
	out := make([]T, len(c.Rest))

	for i := range c.Rest {
		v, err := RestArg[T](c, i)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

// RestArg converts rest argument i to T.
func RestArg[T any](c *Call, i int) (T, error) {
	var zero T

	if i < 0 || i >= len(c.Rest) {
		return zero, newEvalError(c.Span, ErrArity.Errorf("missing argument %d", len(c.Args)+i+1))
	}

	v, err := ExpectConvert[T](c.Env, c.Rest[i])
	if err != nil {
		return zero, newEvalError(c.RestSpan(i),
			fmt.Errorf("argument %d: %w", len(c.Args)+i+1, err))
	}

	return v, nil
}

// OptionValue converts the option name to T, or returns def if it was not
// given.
func OptionValue[T any](c *Call, name string, def T) (T, error) {
	v, ok := c.Options[name]
	if !ok {
		return def, nil
	}

	t, err := ExpectConvert[T](c.Env, v)
	if err != nil {
		return def, newEvalError(c.Span, fmt.Errorf("option --%s: %w", name, err))
	}

	return t, nil
}

// Func is the signature of a method body built with [NewMethod].
type Func func(ctx context.Context, call *Call) (any, error)

type method struct {
	name  string
	arity int
	rest  bool
	fn    Func
}

// NewMethod returns a Method that runs fn.
func NewMethod(name string, arity int, rest bool, fn Func) Method {
	return &method{name: name, arity: max(arity, 0), rest: rest, fn: fn}
}

func (m *method) Name() string { return m.name }
func (m *method) Arity() int   { return m.arity }
func (m *method) Rest() bool   { return m.rest }

func (m *method) Call(ctx context.Context, call *Call) (any, error) {
	return m.fn(ctx, call)
}

func (m *method) String() string { return describeMethod(m) }

// describeMethod renders a method's calling signature, such as "max a b ...".
func describeMethod(m Method) string {
	s := m.Name()

	if p, ok := m.(interface{ Params() []string }); ok {
		for _, name := range p.Params() {
			s += " " + name
		}
	} else {
		for i := range m.Arity() {
			s += " " + string(rune('a'+i%26))
		}
	}

	if m.Rest() {
		s += " ..."
	}

	return s
}

// Signature renders a method's calling signature for help listings.
func Signature(m Method) string { return describeMethod(m) }
