package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/actlang/log"
)

func binary(name string, op func(a, b int) int) Method {
	return NewMethod(name, 2, false, func(_ context.Context, c *Call) (any, error) {
		a, err := Arg[int](c, 0)
		if err != nil {
			return nil, err
		}

		b, err := Arg[int](c, 1)
		if err != nil {
			return nil, err
		}

		return op(a, b), nil
	})
}

// testEnv returns an environment with a few arithmetic methods and a
// rest-taking list constructor.
func testEnv(t *testing.T) (*Environment, *Evaluator) {
	t.Helper()

	env := NewEnvironment()

	for _, m := range []Method{
		binary("+", func(a, b int) int { return a + b }),
		binary("-", func(a, b int) int { return a - b }),
		binary("*", func(a, b int) int { return a * b }),
		NewMethod("list", 0, true, func(_ context.Context, c *Call) (any, error) {
			return append([]any{}, c.Rest...), nil
		}),
		NewMethod("pick", 2, false, func(ctx context.Context, c *Call) (any, error) {
			which, err := Arg[int](c, 0)
			if err != nil {
				return nil, err
			}

			codes, err := Arg[Code](c, 1)
			if err != nil {
				return nil, err
			}

			if which == 0 {
				return nil, nil
			}

			return c.ExecBranch(ctx, codes)
		}),
		NewMethod("run", 1, false, func(ctx context.Context, c *Call) (any, error) {
			code, err := Arg[Code](c, 0)
			if err != nil {
				return nil, err
			}

			return c.Exec(ctx, code)
		}),
		NewMethod("inc", 0, false, func(context.Context, *Call) (any, error) {
			return binary("inc", func(a, b int) int { return a + b + 1 }), nil
		}),
		NewMethod("opts", 0, false, func(_ context.Context, c *Call) (any, error) {
			return c.Options, nil
		}),
	} {
		if err := env.Define(m, false); err != nil {
			t.Fatalf("define %s: %v", m.Name(), err)
		}
	}

	return env, NewEvaluator(WithCache(nil))
}

func TestEval_Dispatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "integer literal", input: "42", want: 42},
		{name: "negative literal", input: "-7", want: -7},
		{name: "text literal", input: `"hi"`, want: "hi"},
		{name: "simple call", input: "+ 1 2", want: 3},
		{name: "nested dispatch", input: "+ 1 * 3 2", want: 7},
		{name: "left to right", input: "- * 2 5 3", want: 7},
		{name: "nested blocks", input: "(+ 1 (* 3 (- 8 2)))", want: 19},
		{name: "block argument", input: "* (+ 1 2) 4", want: 12},
		{name: "placeholder value", input: "_", want: Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ev := testEnv(t)

			got, err := ev.Run(t.Context(), env, tt.input)
			if err != nil {
				t.Fatalf("eval error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEval_RestAndOptions(t *testing.T) {
	env, ev := testEnv(t)

	got, err := ev.Run(t.Context(), env, `list 1 + 2 3 "x"`)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if s := FormatResult(got); s != `(list 1 5 "x")` {
		t.Errorf("list = %s", s)
	}

	got, err = ev.Run(t.Context(), env, `opts --a 1 --b --c + 1 2 --d`)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	opts, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("opts returned %T", got)
	}

	want := map[string]any{"a": 1, "b": true, "c": 3, "d": true}
	for k, v := range want {
		if opts[k] != v {
			t.Errorf("option %s = %v, want %v", k, opts[k], v)
		}
	}

	if len(opts) != len(want) {
		t.Errorf("got %d options, want %d", len(opts), len(want))
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		caret    string
	}{
		{
			name:     "unresolved identifier",
			input:    "unknown-thing 1 2",
			sentinel: ErrUnresolved,
			caret:    "unknown-thing",
		},
		{
			name:     "unresolved argument",
			input:    "+ 1 missing",
			sentinel: ErrUnresolved,
			caret:    "missing",
		},
		{
			name:     "value in head position",
			input:    "5 6",
			sentinel: ErrNotCallable,
			caret:    "5",
		},
		{
			name:     "too few arguments",
			input:    "+ 1",
			sentinel: ErrArity,
			caret:    "+ 1",
		},
		{
			name:     "nested too few arguments",
			input:    "+ 1 *",
			sentinel: ErrArity,
			caret:    "*",
		},
		{
			name:     "too many arguments",
			input:    "+ 1 2 3",
			sentinel: ErrTooManyArguments,
			caret:    "3",
		},
		{
			name:     "conversion failure",
			input:    `+ 1 "two"`,
			sentinel: ErrConversion,
			caret:    `"two"`,
		},
		{
			name:     "stray option",
			input:    "--flag",
			sentinel: ErrStrayOption,
			caret:    "--flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ev := testEnv(t)

			_, err := ev.Run(t.Context(), env, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}

			var ee *EvalError
			if !errors.As(err, &ee) {
				t.Fatalf("error %T is not *EvalError: %v", err, err)
			}

			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v is not %v", err, tt.sentinel)
			}

			if got := ee.Span.Text(); got != tt.caret {
				t.Errorf("span text = %q, want %q", got, tt.caret)
			}

			rendered := err.Error()
			if !strings.Contains(rendered, "1 | "+tt.input) {
				t.Errorf("rendered error lacks source line:\n%s", rendered)
			}

			if !strings.Contains(rendered, strings.Repeat("^", len(tt.caret))) {
				t.Errorf("rendered error lacks carets:\n%s", rendered)
			}
		})
	}
}

func TestEval_UnresolvedMessage(t *testing.T) {
	env, ev := testEnv(t)

	_, err := ev.Run(t.Context(), env, "unknown-thing 1 2")
	if err == nil {
		t.Fatal("expected error")
	}

	want := "  1 | unknown-thing 1 2\n" +
		"      ^^^^^^^^^^^^^"
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error =\n%s\nwant excerpt\n%s", err, want)
	}

	if !strings.Contains(err.Error(), `"unknown-thing"`) {
		t.Errorf("error does not name the identifier: %s", err)
	}
}

func TestEval_CodeArguments(t *testing.T) {
	env, ev := testEnv(t)

	calls := 0
	env.DefineGlobal(NewMethod("tick", 0, false, func(context.Context, *Call) (any, error) {
		calls++

		return calls, nil
	}))

	// Quoted code runs only when the method executes it.
	got, err := ev.Run(t.Context(), env, "pick 0 'tick")
	if err != nil || got != nil || calls != 0 {
		t.Fatalf("untaken code ran: got %v err %v calls %d", got, err, calls)
	}

	got, err = ev.Run(t.Context(), env, "pick 1 'tick")
	if err != nil || got != 1 || calls != 1 {
		t.Fatalf("taken code: got %v err %v calls %d", got, err, calls)
	}

	// An evaluated argument is wrapped in a stub; it ran before the call.
	got, err = ev.Run(t.Context(), env, "pick 0 tick")
	if err != nil || got != nil || calls != 2 {
		t.Fatalf("stub: got %v err %v calls %d", got, err, calls)
	}

	got, err = ev.Run(t.Context(), env, "pick 1 (+ 2 3)")
	if err != nil || got != 5 {
		t.Fatalf("stub value: got %v err %v", got, err)
	}

	// A quoted unbound word taken as a branch is a symbol and evaluates to
	// its name.
	got, err = ev.Run(t.Context(), env, "pick 1 'alive")
	if err != nil || got != "alive" {
		t.Fatalf("symbol: got %v err %v", got, err)
	}

	// Outside a branch the same word is an unresolved name.
	_, err = ev.Run(t.Context(), env, "run 'alive")
	if !errors.Is(err, ErrUnresolved) {
		t.Fatalf("run 'alive = %v, want ErrUnresolved", err)
	}

	got, err = ev.Run(t.Context(), env, "run '(+ 2 3)")
	if err != nil || got != 5 {
		t.Fatalf("run code: got %v err %v", got, err)
	}
}

func TestEval_ComputedHead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "block head", input: "(inc) 2 3", want: 6},
		{name: "nested in argument", input: "* 2 ((inc) 1 1)", want: 6},
		{name: "doubly nested", input: "((inc) 1 1)", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ev := testEnv(t)

			got, err := ev.Run(t.Context(), env, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEval_ComputedHeadArity(t *testing.T) {
	env, ev := testEnv(t)

	_, err := ev.Run(t.Context(), env, "(inc) 2")

	var ee *EvalError
	if !errors.As(err, &ee) || !errors.Is(err, ErrArity) {
		t.Fatalf("error = %v, want located ErrArity", err)
	}

	if got := ee.Span.Text(); got != "(inc) 2" {
		t.Errorf("span text = %q, want %q", got, "(inc) 2")
	}

	if !strings.Contains(err.Error(), "inc expects 2 argument(s)") {
		t.Errorf("error does not name the method: %s", err)
	}
}

func TestEval_TrailingOptionsBindInnermost(t *testing.T) {
	tests := []struct {
		name  string
		input string
		inner int
	}{
		{name: "unparenthesized", input: "list opts --flag", inner: 1},
		{name: "parenthesized", input: "list (opts) --flag", inner: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ev := testEnv(t)

			got, err := ev.Run(t.Context(), env, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			list, ok := got.([]any)
			if !ok || len(list) != 1 {
				t.Fatalf("got %#v, want one element", got)
			}

			opts, ok := list[0].(map[string]any)
			if !ok {
				t.Fatalf("element %T, want options map", list[0])
			}

			if len(opts) != tt.inner {
				t.Errorf("inner call got %d options, want %d", len(opts), tt.inner)
			}
		})
	}
}

func TestEval_InvalidTrees(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
	}{
		{name: "nil", expr: nil},
		{name: "empty chain", expr: &Chain{}},
		{name: "empty block", expr: &Block{}},
		{name: "nil item", expr: &Chain{Items: []Expr{&Number{Value: 1}, nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := testEnv(t)

			var buf bytes.Buffer

			ev := NewEvaluator(WithCache(nil), WithLogger(
				log.Make(&buf, log.WithLevel(log.LevelTrace))))

			_, err := ev.Eval(t.Context(), env, tt.expr)
			if !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("error = %v, want ErrInvalidCode", err)
			}
		})
	}
}

func TestEval_MethodErrors(t *testing.T) {
	env, ev := testEnv(t)

	errForeign := errors.New("out of cards")

	env.DefineGlobal(NewMethod("domain", 1, false, func(context.Context, *Call) (any, error) {
		return nil, ErrDomain.Errorf("negative")
	}))
	env.DefineGlobal(NewMethod("foreign", 0, false, func(context.Context, *Call) (any, error) {
		return nil, errForeign
	}))

	_, err := ev.Run(t.Context(), env, "+ 1 domain 5")

	var ee *EvalError
	if !errors.As(err, &ee) || !errors.Is(err, ErrDomain) {
		t.Fatalf("domain error = %v, want located EvalError", err)
	}

	if got := ee.Span.Text(); got != "domain 5" {
		t.Errorf("domain span = %q, want %q", got, "domain 5")
	}

	_, err = ev.Run(t.Context(), env, "foreign")
	if err != errForeign {
		t.Fatalf("foreign error = %v, want it unmodified", err)
	}
}

func TestEval_Cancelled(t *testing.T) {
	env, ev := testEnv(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := ev.Run(ctx, env, "+ 1 2"); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestEvaluator_UsesCache(t *testing.T) {
	cache, err := NewCache(8)
	if err != nil {
		t.Fatal(err)
	}

	env, _ := testEnv(t)
	ev := NewEvaluator(WithCache(cache))

	for range 3 {
		if _, err := ev.Run(t.Context(), env, "+ 1 2"); err != nil {
			t.Fatal(err)
		}
	}

	if cache.Len() != 1 {
		t.Errorf("cache holds %d trees, want 1", cache.Len())
	}
}
