package stdlib

import (
	"context"
	"strconv"
	"strings"

	"github.com/ardnew/actlang/lang"
)

func (l *library) data() []lang.Method {
	return []lang.Method{
		method("list", 0, true, func(_ context.Context, c *lang.Call) (any, error) {
			return append([]any{}, c.Rest...), nil
		}),
		method("len", 1, false, length),
		method("nth", 2, false, nth),
		method("range", 2, false, rangeInts),
		method("concat", 0, true, concat),
		method("str", 1, false, func(_ context.Context, c *lang.Call) (any, error) {
			return lang.Arg[string](c, 0)
		}),
		method("int", 1, false, func(_ context.Context, c *lang.Call) (any, error) {
			return lang.Arg[int](c, 0)
		}),
	}
}

// len LIST | len TEXT
func length(_ context.Context, c *lang.Call) (any, error) {
	if s, ok := c.Args[0].(string); ok {
		return len([]rune(s)), nil
	}

	items, err := lang.Arg[[]any](c, 0)
	if err != nil {
		return nil, err
	}

	return len(items), nil
}

// nth LIST INDEX
func nth(_ context.Context, c *lang.Call) (any, error) {
	items, err := lang.Arg[[]any](c, 0)
	if err != nil {
		return nil, err
	}

	i, err := lang.Arg[int](c, 1)
	if err != nil {
		return nil, err
	}

	if i < 0 || i >= len(items) {
		return nil, lang.ErrDomain.Errorf("index %d out of range [0,%d)", i, len(items))
	}

	return items[i], nil
}

// range START END
//
// START may be _ for 0.
func rangeInts(_ context.Context, c *lang.Call) (any, error) {
	start, err := lang.ArgDefault(c, 0, 0)
	if err != nil {
		return nil, err
	}

	end, err := lang.Arg[int](c, 1)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		out = append(out, i)
	}

	return out, nil
}

// concat VALUE...
//
// Lists are flattened into one list; anything else is joined as text.
func concat(_ context.Context, c *lang.Call) (any, error) {
	lists := len(c.Rest) > 0

	for _, v := range c.Rest {
		if _, ok := v.([]any); !ok {
			lists = false

			break
		}
	}

	if lists {
		var out []any
		for _, v := range c.Rest {
			out = append(out, v.([]any)...)
		}

		return out, nil
	}

	parts, err := lang.RestArgs[string](c)
	if err != nil {
		return nil, err
	}

	return strings.Join(parts, ""), nil
}

func installConverters(env *lang.Environment) {
	lang.RegisterConverter(env, intToText)
	lang.RegisterConverter(env, boolToText)
	lang.RegisterConverter(env, symbolToText)
	lang.RegisterConverter(env, textToInt)
	lang.RegisterConverter(env, boolToInt)
	lang.RegisterConverter(env, intToBool)
	lang.RegisterConverter(env, nilToBool)
	lang.RegisterConverter(env, textToList)
	lang.RegisterConverter(env, intsToList)
	lang.RegisterConverter(env, listToInts)
	lang.RegisterConverter(env, lang.Compose(textToList, listToInts))
}

func intToText(_ *lang.Environment, v any) (string, bool) {
	n, ok := v.(int)
	if !ok {
		return "", false
	}

	return strconv.Itoa(n), true
}

func boolToText(_ *lang.Environment, v any) (string, bool) {
	b, ok := v.(bool)
	if !ok {
		return "", false
	}

	return strconv.FormatBool(b), true
}

func symbolToText(_ *lang.Environment, v any) (string, bool) {
	s, ok := v.(lang.Symbol)

	return string(s), ok
}

func textToInt(_ *lang.Environment, v any) (int, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(s))

	return n, err == nil
}

func boolToInt(_ *lang.Environment, v any) (int, bool) {
	b, ok := v.(bool)
	if !ok {
		return 0, false
	}

	if b {
		return 1, true
	}

	return 0, true
}

func intToBool(_ *lang.Environment, v any) (bool, bool) {
	n, ok := v.(int)
	if !ok {
		return false, false
	}

	return n != 0, true
}

func nilToBool(_ *lang.Environment, v any) (bool, bool) {
	return false, v == nil
}

// textToList splits text on whitespace.
func textToList(_ *lang.Environment, v any) ([]any, bool) {
	s, ok := v.(string)
	if !ok {
		return nil, false
	}

	fields := strings.Fields(s)

	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = f
	}

	return out, true
}

func intsToList(_ *lang.Environment, v any) ([]any, bool) {
	ns, ok := v.([]int)
	if !ok {
		return nil, false
	}

	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = n
	}

	return out, true
}

// listToInts converts every item to int, or fails as a whole.
func listToInts(env *lang.Environment, v any) ([]int, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([]int, len(items))

	for i, item := range items {
		n, ok := lang.Convert[int](env, item)
		if !ok {
			return nil, false
		}

		out[i] = n
	}

	return out, true
}
