package lang

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/actlang/log"
)

// Evaluator runs programs against an [Environment].
//
// A program is evaluated as a chain. The first expression of a chain is its
// head. When the head names a method, the method is applied: the following
// expressions are consumed left to right as its arguments, each fully
// evaluated before the next. An argument that itself names a method is
// applied in turn and consumes its own arguments from the same chain, so
//
//	+ 1 * 3 2
//
// is + applied to 1 and (* 3 2). A head that is not a method is only valid
// alone, as a bare value, unless it evaluates to a method, as in
//
//	(def 'g 'x '(+ x 1)) 5
//
// which is applied like a named one. Options ("--name value", or a trailing
// "--name" flag) may appear anywhere after a method name and bind to that
// call. Options that follow the last argument bind to the innermost call
// still open, so in
//
//	let 'x + 1 2 --overwrite
//
// the flag goes to + rather than let. Parenthesize the argument to give it
// to the outer call: let 'x (+ 1 2) --overwrite.
//
// An Evaluator holds no per-evaluation state and may be shared.
type Evaluator struct {
	logger log.Logger
	cache  *Cache
}

// NewEvaluator returns an Evaluator. By default it parses source text through
// the package-level cache.
func NewEvaluator(opts ...Option) *Evaluator {
	cfg := applyOptions(opts...)

	return &Evaluator{logger: cfg.logger, cache: cfg.cache}
}

// Run parses src and evaluates it against env.
func (ev *Evaluator) Run(ctx context.Context, env *Environment, src string) (any, error) {
	var (
		e   Expr
		err error
	)

	if ev.cache != nil {
		e, err = ev.cache.Parse(ctx, src)
	} else {
		e, err = Parse(ctx, src, WithLogger(ev.logger))
	}

	if err != nil {
		return nil, err
	}

	return ev.Eval(ctx, env, e)
}

// Eval evaluates a parsed program against env.
func (ev *Evaluator) Eval(ctx context.Context, env *Environment, e Expr) (any, error) {
	if e == nil {
		return nil, ErrInvalidCode.Errorf("nil expression")
	}

	return ev.chain(ctx, env, items(e))
}

// Exec runs code passed to a method. Parsed code is evaluated as a chain and
// a [Stub] yields its value.
func (ev *Evaluator) Exec(ctx context.Context, env *Environment, code Code) (any, error) {
	switch c := code.(type) {
	case nil:
		return nil, ErrInvalidCode.Errorf("nil code")

	case *Stub:
		return c.Value, nil

	case Expr:
		return ev.Eval(ctx, env, c)

	default:
		return nil, ErrInvalidCode.Errorf("unsupported code type %T", code)
	}
}

// ExecBranch is [Evaluator.Exec] for the branches of a conditional. A bare
// identifier that resolves to nothing yields its own name as text, so quoted
// words such as 'yes act as symbols. Everywhere else an unresolved name is
// an error.
func (ev *Evaluator) ExecBranch(ctx context.Context, env *Environment, code Code) (any, error) {
	if id, ok := code.(*Identifier); ok {
		if r, err := env.resolve(id.Name); err == nil && r.kind == resolvedNone {
			return id.Name, nil
		}
	}

	return ev.Exec(ctx, env, code)
}

// Exec runs code in the environment of the call.
func (c *Call) Exec(ctx context.Context, code Code) (any, error) {
	return c.Eval.Exec(ctx, c.Env, code)
}

// ExecBranch runs a conditional branch in the environment of the call.
func (c *Call) ExecBranch(ctx context.Context, code Code) (any, error) {
	return c.Eval.ExecBranch(ctx, c.Env, code)
}

// stream is the unconsumed remainder of a chain.
type stream struct {
	items []Expr
	pos   int
}

func (s *stream) done() bool { return s.pos >= len(s.items) }

func (s *stream) peek() Expr { return s.items[s.pos] }

func (s *stream) next() Expr {
	e := s.items[s.pos]
	s.pos++

	return e
}

// last returns the most recently consumed expression.
func (s *stream) last() Expr { return s.items[s.pos-1] }

func (ev *Evaluator) chain(ctx context.Context, env *Environment, exprs []Expr) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(exprs) == 0 {
		return nil, ErrInvalidCode.Errorf("empty chain")
	}

	for i, e := range exprs {
		if e == nil {
			return nil, ErrInvalidCode.Errorf("nil expression at position %d", i+1)
		}
	}

	s := &stream{items: exprs}
	head := s.peek()

	if ev.logger.Allows(log.LevelTrace) {
		ev.logger.TraceContext(ctx, "eval chain",
			slog.String("head", head.String()),
			slog.Int("length", len(exprs)),
			slog.Int("depth", env.Depth()))
	}

	v, applied, err := ev.operand(ctx, env, s)
	if err != nil {
		return nil, err
	}

	if m, ok := v.(Method); ok && !applied {
		if v, err = ev.apply(ctx, env, m, m.Name(), head.Span(), s); err != nil {
			return nil, err
		}

		applied = true
	}

	if !s.done() {
		extra := s.peek()

		if applied {
			return nil, newEvalError(extra.Span(), ErrArity.Wrap(
				ErrTooManyArguments.Errorf("unexpected %s after call to %s", extra, head)))
		}

		return nil, newEvalError(head.Span(),
			ErrNotCallable.Errorf("%s is a %s, not a method", head, TypeName(v)))
	}

	return v, nil
}

// operand evaluates the next expression of s. If it names a method, the
// method is applied to arguments consumed from s and applied is true.
func (ev *Evaluator) operand(
	ctx context.Context,
	env *Environment,
	s *stream,
) (v any, applied bool, err error) {
	switch e := s.next().(type) {
	case *Text:
		return e.Value, false, nil

	case *Number:
		return e.Value, false, nil

	case *Deferred:
		return Quote{Expr: e.Inner}, false, nil

	case *Keyword:
		return nil, false, newEvalError(e.Pos,
			ErrStrayOption.Errorf("%s", e))

	case *Block:
		v, err := ev.chain(ctx, env, items(e))

		return v, false, err

	case *Chain:
		v, err := ev.chain(ctx, env, e.Items)

		return v, false, err

	case *Identifier:
		r, err := env.resolve(e.Name)
		if err != nil {
			return nil, false, newEvalError(e.Pos, err)
		}

		switch r.kind {
		case resolvedMethod:
			v, err := ev.apply(ctx, env, r.method, e.Name, e.Pos, s)

			return v, true, err

		case resolvedValue:
			return r.value, false, nil

		default:
			return nil, false, newEvalError(e.Pos, ErrUnresolved.Errorf("%q", e.Name))
		}

	default:
		return nil, false, ErrInvalidCode.Errorf("unsupported expression %T", e)
	}
}

// apply collects the arguments of m from s and calls it. name and pos
// identify the head that produced m.
func (ev *Evaluator) apply(
	ctx context.Context,
	env *Environment,
	m Method,
	name string,
	pos Span,
	s *stream,
) (any, error) {
	call := &Call{
		Env:     env,
		Eval:    ev,
		Options: make(map[string]any),
		Span:    pos,
	}

	for len(call.Args) < m.Arity() {
		if err := ev.options(ctx, env, s, call); err != nil {
			return nil, err
		}

		if s.done() {
			return nil, newEvalError(call.Span,
				ErrArity.Errorf("%s expects %d argument(s), got %d",
					name, m.Arity(), len(call.Args)))
		}

		v, span, err := ev.argument(ctx, env, s)
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, v)
		call.argSpans = append(call.argSpans, span)
		call.Span = call.Span.Join(span)
	}

	for m.Rest() && !s.done() {
		if err := ev.options(ctx, env, s, call); err != nil {
			return nil, err
		}

		if s.done() {
			break
		}

		v, span, err := ev.argument(ctx, env, s)
		if err != nil {
			return nil, err
		}

		call.Rest = append(call.Rest, v)
		call.restSpans = append(call.restSpans, span)
		call.Span = call.Span.Join(span)
	}

	if err := ev.options(ctx, env, s, call); err != nil {
		return nil, err
	}

	ev.logger.TraceContext(ctx, "call method",
		slog.String("method", m.Name()),
		slog.Int("args", len(call.Args)),
		slog.Int("rest", len(call.Rest)),
		slog.Int("options", len(call.Options)))

	result, err := m.Call(ctx, call)
	if err != nil {
		return nil, locate(err, call.Span)
	}

	return result, nil
}

// argument evaluates one argument and returns the span of everything it
// consumed.
func (ev *Evaluator) argument(
	ctx context.Context,
	env *Environment,
	s *stream,
) (any, Span, error) {
	first := s.peek().Span()

	v, _, err := ev.operand(ctx, env, s)
	if err != nil {
		return nil, Span{}, err
	}

	return v, first.Join(s.last().Span()), nil
}

// options consumes any options at the front of s into call.Options.
func (ev *Evaluator) options(
	ctx context.Context,
	env *Environment,
	s *stream,
	call *Call,
) error {
	for !s.done() {
		kw, ok := s.peek().(*Keyword)
		if !ok {
			return nil
		}

		s.next()
		call.Span = call.Span.Join(kw.Pos)

		if s.done() {
			call.Options[kw.Name] = true

			return nil
		}

		if _, flag := s.peek().(*Keyword); flag {
			call.Options[kw.Name] = true

			continue
		}

		v, span, err := ev.argument(ctx, env, s)
		if err != nil {
			return err
		}

		call.Options[kw.Name] = v
		call.Span = call.Span.Join(span)
	}

	return nil
}

// locate attaches a source span to errors raised by a method. Errors that
// already carry a span, context errors, and errors from outside this package
// are returned unchanged.
func locate(err error, span Span) error {
	var (
		pe *ParseError
		ee *EvalError
		le *Error
	)

	switch {
	case errors.As(err, &ee), errors.As(err, &pe):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.As(err, &le):
		return newEvalError(span, err)
	default:
		return err
	}
}
