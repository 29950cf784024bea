package stdlib

import (
	"context"
	"log/slog"

	"github.com/ardnew/actlang/lang"
)

func (l *library) control() []lang.Method {
	return []lang.Method{
		method("if", 3, false, l.ifElse),
		method("when", 2, false, l.when),
		method("do", 0, true, l.do),
		method("def", 1, true, l.def),
		method("alias", 2, false, l.alias),
		method("let", 2, false, l.let),
		method("set", 2, false, l.set),
		method("eval", 1, false, l.eval),
		method("repeat", 2, false, l.repeat),
		method("each", 3, false, l.each),
	}
}

// if COND 'THEN 'ELSE
func (l *library) ifElse(ctx context.Context, c *lang.Call) (any, error) {
	cond, err := lang.Arg[bool](c, 0)
	if err != nil {
		return nil, err
	}

	branch := 2
	if cond {
		branch = 1
	}

	code, err := lang.Arg[lang.Code](c, branch)
	if err != nil {
		return nil, err
	}

	return c.ExecBranch(ctx, code)
}

// when COND 'BODY
func (l *library) when(ctx context.Context, c *lang.Call) (any, error) {
	cond, err := lang.Arg[bool](c, 0)
	if err != nil || !cond {
		return nil, err
	}

	code, err := lang.Arg[lang.Code](c, 1)
	if err != nil {
		return nil, err
	}

	return c.ExecBranch(ctx, code)
}

// do 'EXPR...
func (l *library) do(ctx context.Context, c *lang.Call) (any, error) {
	codes, err := lang.RestArgs[lang.Code](c)
	if err != nil {
		return nil, err
	}

	var last any

	err = c.Env.Scoped(func() error {
		for _, code := range codes {
			v, err := c.Exec(ctx, code)
			if err != nil {
				return err
			}

			last = v
		}

		return nil
	})

	return last, err
}

// def 'NAME 'PARAM... 'BODY [--overwrite]
func (l *library) def(_ context.Context, c *lang.Call) (any, error) {
	name, err := lang.Arg[lang.Symbol](c, 0)
	if err != nil {
		return nil, err
	}

	if len(c.Rest) == 0 {
		return nil, c.Fail(lang.ErrArity.Errorf("def %s has no body", name))
	}

	last := len(c.Rest) - 1

	params := make([]string, last)
	for i := range last {
		p, err := lang.RestArg[lang.Symbol](c, i)
		if err != nil {
			return nil, err
		}

		params[i] = string(p)
	}

	body, err := lang.RestArg[lang.Code](c, last)
	if err != nil {
		return nil, err
	}

	overwrite, err := lang.OptionValue(c, "overwrite", false)
	if err != nil {
		return nil, err
	}

	m := &userMethod{name: string(name), params: params, body: body}

	if err := c.Env.Define(m, overwrite); err != nil {
		return nil, err
	}

	l.logger.Debug("define method",
		slog.String("name", m.name),
		slog.Any("params", m.params))

	return m, nil
}

// userMethod is a method defined in the language with def. Its body runs in
// a new scope binding each parameter, on top of the caller's environment.
type userMethod struct {
	name   string
	params []string
	body   lang.Code
}

func (m *userMethod) Name() string     { return m.name }
func (m *userMethod) Arity() int       { return len(m.params) }
func (m *userMethod) Rest() bool       { return false }
func (m *userMethod) Params() []string { return m.params }

func (m *userMethod) Call(ctx context.Context, c *lang.Call) (any, error) {
	var result any

	err := c.Env.Scoped(func() error {
		for i, p := range m.params {
			if err := c.Env.Set(p, c.Args[i], true); err != nil {
				return err
			}
		}

		var err error

		result, err = c.Exec(ctx, m.body)

		return err
	})

	return result, err
}

// alias 'NAME 'TARGET [--overwrite]
func (l *library) alias(_ context.Context, c *lang.Call) (any, error) {
	name, err := lang.Arg[lang.Symbol](c, 0)
	if err != nil {
		return nil, err
	}

	target, err := lang.Arg[lang.Symbol](c, 1)
	if err != nil {
		return nil, err
	}

	overwrite, err := lang.OptionValue(c, "overwrite", false)
	if err != nil {
		return nil, err
	}

	if err := c.Env.DefineAlias(string(name), string(target), overwrite); err != nil {
		return nil, err
	}

	return name, nil
}

// let 'NAME VALUE [--overwrite]
func (l *library) let(_ context.Context, c *lang.Call) (any, error) {
	name, err := lang.Arg[lang.Symbol](c, 0)
	if err != nil {
		return nil, err
	}

	overwrite, err := lang.OptionValue(c, "overwrite", false)
	if err != nil {
		return nil, err
	}

	if err := c.Env.Set(string(name), c.Args[1], overwrite); err != nil {
		return nil, err
	}

	return c.Args[1], nil
}

// set 'NAME VALUE [--global]
//
// Unlike let, set always overwrites: it rebinds the name in the innermost
// scope that already has it.
func (l *library) set(_ context.Context, c *lang.Call) (any, error) {
	name, err := lang.Arg[lang.Symbol](c, 0)
	if err != nil {
		return nil, err
	}

	global, err := lang.OptionValue(c, "global", false)
	if err != nil {
		return nil, err
	}

	if global {
		c.Env.SetGlobal(string(name), c.Args[1])
	} else {
		c.Env.Assign(string(name), c.Args[1])
	}

	return c.Args[1], nil
}

// eval 'CODE | eval "SOURCE"
func (l *library) eval(ctx context.Context, c *lang.Call) (any, error) {
	if src, ok := c.Args[0].(string); ok {
		return c.Eval.Run(ctx, c.Env, src)
	}

	code, err := lang.Arg[lang.Code](c, 0)
	if err != nil {
		return nil, err
	}

	return c.Exec(ctx, code)
}

// repeat N 'BODY
func (l *library) repeat(ctx context.Context, c *lang.Call) (any, error) {
	n, err := lang.Arg[int](c, 0)
	if err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, lang.ErrDomain.Errorf("repeat count %d is negative", n)
	}

	code, err := lang.Arg[lang.Code](c, 1)
	if err != nil {
		return nil, err
	}

	var last any

	for range n {
		if last, err = c.Exec(ctx, code); err != nil {
			return nil, err
		}
	}

	return last, nil
}

// each LIST 'NAME 'BODY
func (l *library) each(ctx context.Context, c *lang.Call) (any, error) {
	items, err := lang.Arg[[]any](c, 0)
	if err != nil {
		return nil, err
	}

	name, err := lang.Arg[lang.Symbol](c, 1)
	if err != nil {
		return nil, err
	}

	code, err := lang.Arg[lang.Code](c, 2)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(items))

	for _, item := range items {
		err := c.Env.Scoped(func() error {
			if err := c.Env.Set(string(name), item, true); err != nil {
				return err
			}

			v, err := c.Exec(ctx, code)
			if err != nil {
				return err
			}

			out = append(out, v)

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
