package lang

import (
	"log/slog"
	"reflect"
)

// Converter coerces an arbitrary value to T. It reports false when the value
// cannot be converted; it must not return a partially converted value.
type Converter[T any] func(env *Environment, v any) (T, bool)

// converter is a type-erased Converter registered in a scope.
type converter struct {
	target reflect.Type
	fn     func(env *Environment, v any) (any, bool)
}

// RegisterConverter adds conv to the innermost scope. Converters are
// consulted innermost scope first and, within a scope, in registration
// order.
func RegisterConverter[T any](env *Environment, conv Converter[T]) {
	s := env.top()

	s.converters = append(s.converters, converter{
		target: reflect.TypeFor[T](),
		fn: func(env *Environment, v any) (any, bool) {
			return conv(env, v)
		},
	})

	env.logger.Trace("register converter",
		slog.String("target", typeNameOf[T]()),
		slog.Int("depth", len(env.scopes)))
}

// Convert coerces v to T: v is returned unchanged if it already is a T,
// otherwise the first registered converter to T that accepts v decides. The
// nil value converts to any.
func Convert[T any](env *Environment, v any) (T, bool) {
	if t, ok := v.(T); ok {
		return t, true
	}

	target := reflect.TypeFor[T]()

	if v == nil && target == reflect.TypeFor[any]() {
		var zero T

		return zero, true
	}

	for i := len(env.scopes) - 1; i >= 0; i-- {
		for _, c := range env.scopes[i].converters {
			if c.target != target {
				continue
			}

			out, ok := c.fn(env, v)
			if !ok {
				continue
			}

			if t, ok := out.(T); ok {
				return t, true
			}
		}
	}

	var zero T

	return zero, false
}

// ExpectConvert is [Convert] that fails with an error naming both the actual
// and the expected type.
func ExpectConvert[T any](env *Environment, v any) (T, error) {
	t, ok := Convert[T](env, v)
	if !ok {
		return t, ErrConversion.Errorf("cannot convert %s to %s", TypeName(v), typeNameOf[T]()).
			With(
				slog.String("actual", TypeName(v)),
				slog.String("expected", typeNameOf[T]()),
			)
	}

	return t, nil
}

// ConvertDefault is [ExpectConvert] that maps the placeholder _ to def. The
// mapping is a converter registered in a temporary scope, so it applies only
// to this one conversion.
func ConvertDefault[T any](env *Environment, v any, def T) (T, error) {
	var out T

	err := env.Scoped(func() error {
		RegisterConverter(env, func(_ *Environment, v any) (T, bool) {
			if IsPlaceholder(v) {
				return def, true
			}

			var zero T

			return zero, false
		})

		var err error

		out, err = ExpectConvert[T](env, v)

		return err
	})

	return out, err
}

// Compose chains two converters: the result of first is converted by
// second. The composite fails if either step fails.
func Compose[A, B any](first Converter[A], second Converter[B]) Converter[B] {
	return func(env *Environment, v any) (B, bool) {
		var zero B

		a, ok := first(env, v)
		if !ok {
			return zero, false
		}

		b, ok := second(env, a)
		if !ok {
			return zero, false
		}

		return b, true
	}
}

// Via returns a Converter that converts through the converters registered in
// the environment at conversion time.
func Via[T any]() Converter[T] {
	return Convert[T]
}

// CoreConverters registers the conversions the evaluator relies on:
// quotes and evaluated values to [Code], and quoted identifiers and text to
// [Symbol]. [NewEnvironment] installs them in the ground scope.
func CoreConverters(env *Environment) {
	RegisterConverter(env, func(_ *Environment, v any) (Code, bool) {
		if q, ok := v.(Quote); ok {
			return q.Expr, true
		}

		return nil, false
	})

	RegisterConverter(env, func(_ *Environment, v any) (Code, bool) {
		return &Stub{Value: v}, true
	})

	RegisterConverter(env, func(_ *Environment, v any) (Symbol, bool) {
		if q, ok := v.(Quote); ok {
			if id, ok := q.Expr.(*Identifier); ok {
				return Symbol(id.Name), true
			}
		}

		return "", false
	})

	RegisterConverter(env, func(_ *Environment, v any) (Symbol, bool) {
		if s, ok := v.(string); ok && s != "" {
			return Symbol(s), true
		}

		return "", false
	})
}
