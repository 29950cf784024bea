package stdlib

import (
	"context"
	"reflect"

	"github.com/ardnew/actlang/lang"
)

func binaryInt(name string, op func(a, b int) (int, error)) lang.Method {
	return method(name, 2, false, func(_ context.Context, c *lang.Call) (any, error) {
		a, err := lang.Arg[int](c, 0)
		if err != nil {
			return nil, err
		}

		b, err := lang.Arg[int](c, 1)
		if err != nil {
			return nil, err
		}

		return op(a, b)
	})
}

func unaryInt(name string, op func(a int) int) lang.Method {
	return method(name, 1, false, func(_ context.Context, c *lang.Call) (any, error) {
		a, err := lang.Arg[int](c, 0)
		if err != nil {
			return nil, err
		}

		return op(a), nil
	})
}

func (l *library) arithmetic() []lang.Method {
	return []lang.Method{
		binaryInt("+", func(a, b int) (int, error) { return a + b, nil }),
		binaryInt("-", func(a, b int) (int, error) { return a - b, nil }),
		binaryInt("*", func(a, b int) (int, error) { return a * b, nil }),
		binaryInt("/", func(a, b int) (int, error) {
			if b == 0 {
				return 0, lang.ErrDomain.Errorf("division by zero")
			}

			return a / b, nil
		}),
		binaryInt("%", func(a, b int) (int, error) {
			if b == 0 {
				return 0, lang.ErrDomain.Errorf("modulo by zero")
			}

			return a % b, nil
		}),
		binaryInt("min", func(a, b int) (int, error) { return min(a, b), nil }),
		binaryInt("max", func(a, b int) (int, error) { return max(a, b), nil }),
		unaryInt("abs", func(a int) int {
			if a < 0 {
				return -a
			}

			return a
		}),
		unaryInt("neg", func(a int) int { return -a }),
		method("sum", 1, false, func(_ context.Context, c *lang.Call) (any, error) {
			ns, err := lang.Arg[[]int](c, 0)
			if err != nil {
				return nil, err
			}

			total := 0
			for _, n := range ns {
				total += n
			}

			return total, nil
		}),
	}
}

func compareInt(name string, op func(a, b int) bool) lang.Method {
	return method(name, 2, false, func(_ context.Context, c *lang.Call) (any, error) {
		a, err := lang.Arg[int](c, 0)
		if err != nil {
			return nil, err
		}

		b, err := lang.Arg[int](c, 1)
		if err != nil {
			return nil, err
		}

		return op(a, b), nil
	})
}

func equal(a, b any) bool {
	if lang.IsPlaceholder(a) || lang.IsPlaceholder(b) {
		return a == b
	}

	return reflect.DeepEqual(a, b)
}

func (l *library) comparison() []lang.Method {
	return []lang.Method{
		method("=", 2, false, func(_ context.Context, c *lang.Call) (any, error) {
			return equal(c.Args[0], c.Args[1]), nil
		}),
		method("!=", 2, false, func(_ context.Context, c *lang.Call) (any, error) {
			return !equal(c.Args[0], c.Args[1]), nil
		}),
		compareInt("<", func(a, b int) bool { return a < b }),
		compareInt("<=", func(a, b int) bool { return a <= b }),
		compareInt(">", func(a, b int) bool { return a > b }),
		compareInt(">=", func(a, b int) bool { return a >= b }),
		method("not", 1, false, func(_ context.Context, c *lang.Call) (any, error) {
			b, err := lang.Arg[bool](c, 0)
			if err != nil {
				return nil, err
			}

			return !b, nil
		}),
		logical("and", false),
		logical("or", true),
	}
}

// logical returns a short-circuiting connective over two code operands. The
// first operand whose value is stop decides the result and the rest do not
// run.
func logical(name string, stop bool) lang.Method {
	return method(name, 2, false, func(ctx context.Context, c *lang.Call) (any, error) {
		for i := range 2 {
			code, err := lang.Arg[lang.Code](c, i)
			if err != nil {
				return nil, err
			}

			v, err := c.Exec(ctx, code)
			if err != nil {
				return nil, err
			}

			b, err := lang.ExpectConvert[bool](c.Env, v)
			if err != nil {
				return nil, c.Fail(err)
			}

			if b == stop {
				return stop, nil
			}
		}

		return !stop, nil
	})
}
