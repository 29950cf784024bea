package lang

import (
	"reflect"
)

// Quote is the value of a deferred expression: the inner expression itself,
// unevaluated. Methods receive quotes for code they run on demand.
type Quote struct {
	Expr Expr
}

func (q Quote) String() string { return "'" + q.Expr.String() }

// Symbol is a name passed as a value, usually written as a quoted identifier
// such as 'hp. Text values also convert to symbols.
type Symbol string

// Stub is [Code] wrapping a value that was evaluated before it reached the
// method expecting code. Running it returns the value.
type Stub struct {
	Value any
	Pos   Span
}

func (s *Stub) Span() Span { return s.Pos }

func (s *Stub) String() string { return FormatResult(s.Value) }

type placeholder struct{ _ byte }

func (*placeholder) String() string { return "_" }

// Placeholder is the value bound to the identifier _ in every [Environment].
// It is compared by identity. A method gives it meaning for one argument
// with [ConvertDefault].
var Placeholder any = &placeholder{}

// PlaceholderName is the identifier bound to [Placeholder].
const PlaceholderName = "_"

// IsPlaceholder reports whether v is the [Placeholder].
func IsPlaceholder(v any) bool { return v == Placeholder }

// TypeName returns the language-level name of a value's type, falling back
// to the Go type for host values.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case int:
		return "number"
	case string:
		return "text"
	case bool:
		return "boolean"
	case Symbol:
		return "symbol"
	case Quote:
		return "quoted expression"
	case Code:
		return "code"
	case Method:
		return "method"
	case []any:
		return "list"
	}

	if IsPlaceholder(v) {
		return "placeholder"
	}

	return reflect.TypeOf(v).String()
}

// typeNameOf names the type T for conversion errors.
func typeNameOf[T any]() string {
	var zero T

	t := reflect.TypeFor[T]()

	switch any(zero).(type) {
	case int, string, bool, Symbol, Quote, []any:
		return TypeName(zero)
	}

	switch t {
	case reflect.TypeFor[Code]():
		return "code"
	case reflect.TypeFor[Method]():
		return "method"
	case reflect.TypeFor[any]():
		return "any"
	}

	return t.String()
}
