package lang

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"
)

func constant(name string, v any) Method {
	return NewMethod(name, 0, false, func(context.Context, *Call) (any, error) {
		return v, nil
	})
}

func TestEnvironment_ShadowThenRestore(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(WithCache(nil))

	if err := env.Define(constant("hp", 10), false); err != nil {
		t.Fatal(err)
	}

	env.Push()

	if err := env.Define(constant("hp", 99), false); err != nil {
		t.Fatalf("shadowing in a new scope failed: %v", err)
	}

	got, err := ev.Run(t.Context(), env, "hp")
	if err != nil || got != 99 {
		t.Fatalf("shadowed hp = %v (%v), want 99", got, err)
	}

	if err := env.Pop(); err != nil {
		t.Fatal(err)
	}

	got, err = ev.Run(t.Context(), env, "hp")
	if err != nil || got != 10 {
		t.Fatalf("restored hp = %v (%v), want 10", got, err)
	}
}

func TestEnvironment_GroundScope(t *testing.T) {
	env := NewEnvironment()

	if env.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", env.Depth())
	}

	if err := env.Pop(); !errors.Is(err, ErrGroundScope) {
		t.Fatalf("Pop on ground = %v, want ErrGroundScope", err)
	}

	v, ok := env.LookupVar(PlaceholderName)
	if !ok || !IsPlaceholder(v) {
		t.Errorf("_ = %v, want the placeholder", v)
	}
}

func TestEnvironment_SetOverwrite(t *testing.T) {
	env := NewEnvironment()

	if err := env.Set("gold", 1, false); err != nil {
		t.Fatal(err)
	}

	if err := env.Set("gold", 2, false); !errors.Is(err, ErrAlreadyDefined) {
		t.Fatalf("second Set = %v, want ErrAlreadyDefined", err)
	}

	if err := env.Set("gold", 3, true); err != nil {
		t.Fatalf("overwriting Set failed: %v", err)
	}

	if v, _ := env.LookupVar("gold"); v != 3 {
		t.Errorf("gold = %v, want 3", v)
	}

	// A method and a variable share one namespace per scope.
	if err := env.Define(constant("gold", 0), false); !errors.Is(err, ErrAlreadyDefined) {
		t.Errorf("Define over variable = %v, want ErrAlreadyDefined", err)
	}

	// The same name in a nested scope shadows instead of conflicting.
	env.Push()

	if err := env.Set("gold", 4, false); err != nil {
		t.Errorf("Set in nested scope failed: %v", err)
	}
}

func TestEnvironment_Scoped(t *testing.T) {
	env := NewEnvironment()

	err := env.Scoped(func() error {
		env.Push() // left open on purpose; Scoped still restores depth

		return env.Set("temp", 1, false)
	})
	if err != nil {
		t.Fatal(err)
	}

	if env.Depth() != 1 {
		t.Errorf("depth after Scoped = %d, want 1", env.Depth())
	}

	if _, ok := env.Lookup("temp"); ok {
		t.Error("temp survived its scope")
	}
}

func TestEnvironment_AliasFollowsTarget(t *testing.T) {
	env := NewEnvironment()
	ev := NewEvaluator(WithCache(nil))

	if err := env.Define(constant("attack", 1), false); err != nil {
		t.Fatal(err)
	}

	if err := env.DefineAlias("atk", "attack", false); err != nil {
		t.Fatal(err)
	}

	if got, _ := ev.Run(t.Context(), env, "atk"); got != 1 {
		t.Fatalf("atk = %v, want 1", got)
	}

	env.DefineGlobal(constant("attack", 2))

	if got, _ := ev.Run(t.Context(), env, "atk"); got != 2 {
		t.Fatalf("atk after redefinition = %v, want 2", got)
	}

	if err := env.DefineAlias("a", "b", false); err != nil {
		t.Fatal(err)
	}

	if err := env.DefineAlias("b", "a", false); err != nil {
		t.Fatal(err)
	}

	_, err := ev.Run(t.Context(), env, "a")
	if !errors.Is(err, ErrAliasCycle) {
		t.Errorf("alias cycle = %v, want ErrAliasCycle", err)
	}
}

func TestEnvironment_Names(t *testing.T) {
	env := NewEnvironment()
	env.DefineGlobal(constant("zeta", 0))
	env.Push()
	env.SetGlobal("alpha", 1)

	if err := env.Set("mid", 2, false); err != nil {
		t.Fatal(err)
	}

	want := []string{"_", "alpha", "mid", "zeta"}
	if got := env.Names(); !slices.Equal(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestConvert_NilToAny(t *testing.T) {
	env := NewEnvironment()

	v, err := ExpectConvert[any](env, nil)
	if err != nil || v != nil {
		t.Fatalf("convert nil to any = %v (%v), want nil", v, err)
	}

	if _, err := ExpectConvert[int](env, nil); !errors.Is(err, ErrConversion) {
		t.Errorf("convert nil to int = %v, want ErrConversion", err)
	}

	call := &Call{Env: env, Args: []any{nil}, Options: map[string]any{"target": nil}}

	if v, err := Arg[any](call, 0); err != nil || v != nil {
		t.Errorf("Arg[any] = %v (%v), want nil", v, err)
	}

	if v, err := OptionValue[any](call, "target", "unset"); err != nil || v != nil {
		t.Errorf("OptionValue[any] = %v (%v), want nil", v, err)
	}
}

func TestConvert_Registered(t *testing.T) {
	env := NewEnvironment()

	RegisterConverter(env, func(_ *Environment, v any) (int, bool) {
		s, ok := v.(string)
		if !ok {
			return 0, false
		}

		n, err := strconv.Atoi(s)

		return n, err == nil
	})

	if n, err := ExpectConvert[int](env, "12"); err != nil || n != 12 {
		t.Errorf("convert text = %d (%v), want 12", n, err)
	}

	if n, err := ExpectConvert[int](env, 5); err != nil || n != 5 {
		t.Errorf("identity = %d (%v), want 5", n, err)
	}

	_, err := ExpectConvert[int](env, "twelve")
	if !errors.Is(err, ErrConversion) {
		t.Fatalf("bad text = %v, want ErrConversion", err)
	}

	if msg := err.Error(); !strings.Contains(msg, "text") || !strings.Contains(msg, "number") {
		t.Errorf("message %q does not name both types", msg)
	}

	// Inner scopes take precedence and vanish when popped.
	env.Push()
	RegisterConverter(env, func(_ *Environment, v any) (int, bool) {
		_, ok := v.(string)

		return -1, ok
	})

	if n, _ := ExpectConvert[int](env, "12"); n != -1 {
		t.Errorf("inner converter not preferred: %d", n)
	}

	_ = env.Pop()

	if n, _ := ExpectConvert[int](env, "12"); n != 12 {
		t.Errorf("outer converter not restored: %d", n)
	}
}

func TestConvert_ComposeAllOrNothing(t *testing.T) {
	split := Converter[[]string](func(_ *Environment, v any) ([]string, bool) {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}

		return strings.Fields(s), true
	})

	atoi := Converter[[]int](func(_ *Environment, v any) ([]int, bool) {
		words, ok := v.([]string)
		if !ok {
			return nil, false
		}

		out := make([]int, len(words))
		for i, w := range words {
			n, err := strconv.Atoi(w)
			if err != nil {
				return nil, false
			}

			out[i] = n
		}

		return out, true
	})

	env := NewEnvironment()
	RegisterConverter(env, Compose(split, atoi))

	got, err := ExpectConvert[[]int](env, "1 2 3")
	if err != nil || !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("both hops = %v (%v), want [1 2 3]", got, err)
	}

	tests := []struct {
		name  string
		value any
	}{
		{name: "first hop fails", value: 42},
		{name: "second hop fails", value: "1 two 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Convert[[]int](env, tt.value)
			if ok || got != nil {
				t.Errorf("Convert = %v, %v; want no result", got, ok)
			}
		})
	}
}

func TestConvertDefault_Placeholder(t *testing.T) {
	env := NewEnvironment()

	n, err := ConvertDefault(env, Placeholder, 7)
	if err != nil || n != 7 {
		t.Fatalf("placeholder = %d (%v), want 7", n, err)
	}

	n, err = ConvertDefault(env, 3, 7)
	if err != nil || n != 3 {
		t.Fatalf("explicit value = %d (%v), want 3", n, err)
	}

	// The default is scoped to one conversion.
	if _, err := ExpectConvert[int](env, Placeholder); !errors.Is(err, ErrConversion) {
		t.Fatalf("placeholder outside ConvertDefault = %v, want ErrConversion", err)
	}

	if env.Depth() != 1 {
		t.Errorf("depth = %d, want 1", env.Depth())
	}
}

func TestConvert_Symbols(t *testing.T) {
	env := NewEnvironment()

	quoted := Quote{Expr: MustParse("hp")}

	if s, err := ExpectConvert[Symbol](env, quoted); err != nil || s != "hp" {
		t.Errorf("quoted identifier = %q (%v)", s, err)
	}

	if s, err := ExpectConvert[Symbol](env, "hp"); err != nil || s != "hp" {
		t.Errorf("text = %q (%v)", s, err)
	}

	if _, err := ExpectConvert[Symbol](env, Quote{Expr: MustParse("(a b)")}); err == nil {
		t.Error("quoted block converted to a symbol")
	}
}
