package stdlib

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"

	"github.com/ardnew/actlang/lang"
)

// Errors returned by the host methods.
var (
	ErrNoDecider = lang.NewError("no decider installed")
	ErrChoice    = lang.NewError("invalid choice")
	ErrFormula   = lang.NewError("formula failed")
)

func (l *library) host() []lang.Method {
	return []lang.Method{
		method("expr", 1, false, l.formula),
		method("choose", 1, true, l.choose),
		method("log", 1, false, l.log),
	}
}

// expr "FORMULA"
//
// Evaluates an expr-lang formula over the visible variables. Variable names
// are exposed without a leading $ and with other punctuation mapped to _, so
// $base-cost reads as base_cost.
func (l *library) formula(ctx context.Context, c *lang.Call) (any, error) {
	src, err := lang.Arg[string](c, 0)
	if err != nil {
		return nil, err
	}

	vars := formulaEnv(c.Env)

	program, err := expr.Compile(src, expr.Env(vars))
	if err != nil {
		return nil, ErrFormula.Wrap(err).With(slog.String("source", src))
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return nil, ErrFormula.Wrap(err).With(slog.String("source", src))
	}

	l.logger.TraceContext(ctx, "eval formula",
		slog.String("source", src),
		slog.String("type", fmt.Sprintf("%T", out)))

	return normalize(out), nil
}

// formulaEnv collects the visible variables, innermost binding first.
func formulaEnv(env *lang.Environment) map[string]any {
	vars := make(map[string]any)

	for _, name := range env.Names() {
		v, ok := env.LookupVar(name)
		if !ok || lang.IsPlaceholder(v) {
			continue
		}

		if _, isMethod := v.(lang.Method); isMethod {
			continue
		}

		key := formulaName(name)
		if key == "" {
			continue
		}

		if _, taken := vars[key]; !taken {
			vars[key] = v
		}
	}

	return vars
}

func formulaName(name string) string {
	name = strings.TrimLeft(name, "$")

	key := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return '_'
	}, name)

	if key == "" || unicode.IsDigit(rune(key[0])) {
		return ""
	}

	return key
}

// normalize maps formula results onto language values: whole floats become
// ints.
func normalize(v any) any {
	switch n := v.(type) {
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < math.MaxInt32 {
			return int(n)
		}

		return n
	case int64:
		return int(n)
	default:
		return v
	}
}

// choose "PROMPT" OPTION... [--default N]
//
// Suspends until the host decider picks one of the options, then returns it.
func (l *library) choose(ctx context.Context, c *lang.Call) (any, error) {
	prompt, err := lang.Arg[string](c, 0)
	if err != nil {
		return nil, err
	}

	if len(c.Rest) == 0 {
		return nil, c.Fail(ErrChoice.Errorf("nothing to choose from"))
	}

	if l.decider == nil {
		if c.Has("default") {
			i, err := lang.OptionValue(c, "default", 0)
			if err != nil {
				return nil, err
			}

			return pick(c.Rest, i)
		}

		return nil, ErrNoDecider
	}

	l.logger.DebugContext(ctx, "await decision",
		slog.String("prompt", prompt),
		slog.Int("options", len(c.Rest)))

	i, err := l.decider.Decide(ctx, prompt, slices.Clone(c.Rest))
	if err != nil {
		return nil, err
	}

	return pick(c.Rest, i)
}

func pick(options []any, i int) (any, error) {
	if i < 0 || i >= len(options) {
		return nil, ErrChoice.Errorf("index %d out of range [0,%d)", i, len(options))
	}

	return options[i], nil
}

// log MESSAGE [--KEY VALUE]...
//
// Writes MESSAGE at INFO with each option as an attribute, and returns it.
func (l *library) log(ctx context.Context, c *lang.Call) (any, error) {
	msg, err := lang.Arg[string](c, 0)
	if err != nil {
		return nil, err
	}

	keys := slices.Sorted(maps.Keys(c.Options))

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, lang.FormatResult(c.Options[k])))
	}

	l.logger.InfoContext(ctx, msg, attrs...)

	return msg, nil
}
