package scan

import "sync"

// Result pairs the Cursor following a successful match with the parsed value.
type Result[T any] struct {
	Cursor Cursor
	Value  T
}

// Parser attempts a match at a Cursor.
//
// A Parser that does not match returns ok == false with a nil error, and the
// caller continues from its own Cursor: no input is consumed on failure. A
// non-nil error aborts the whole parse. Productions use it when they matched
// a prefix and then found something that can never be valid.
type Parser[T any] func(c Cursor) (r Result[T], ok bool, err error)

// Pair holds the values of two sequenced parsers.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Spanned is a value together with the text range it was parsed from.
type Spanned[T any] struct {
	Value  T
	Offset int
	Length int
}

// Satisfy matches one rune accepted by pred.
func Satisfy(pred func(rune) bool) Parser[rune] {
	return func(c Cursor) (Result[rune], bool, error) {
		r, size := c.Peek()
		if size == 0 || !pred(r) {
			return Result[rune]{}, false, nil
		}

		return Result[rune]{Cursor: c.Advance(size), Value: r}, true, nil
	}
}

// Rune matches exactly the rune want.
func Rune(want rune) Parser[rune] {
	return Satisfy(func(r rune) bool { return r == want })
}

// Literal matches the exact string s.
func Literal(s string) Parser[string] {
	return func(c Cursor) (Result[string], bool, error) {
		rest := c.Rest()
		if len(rest) < len(s) || rest[:len(s)] != s {
			return Result[string]{}, false, nil
		}

		return Result[string]{Cursor: c.Advance(len(s)), Value: s}, true, nil
	}
}

// TakeWhile matches the longest, possibly empty, run of runes accepted by
// pred and returns the matched text.
func TakeWhile(pred func(rune) bool) Parser[string] {
	return func(c Cursor) (Result[string], bool, error) {
		end := c
		for {
			r, size := end.Peek()
			if size == 0 || !pred(r) {
				break
			}

			end = end.Advance(size)
		}

		return Result[string]{Cursor: end, Value: c.Between(end)}, true, nil
	}
}

// TakeWhile1 is [TakeWhile] requiring at least one rune.
func TakeWhile1(pred func(rune) bool) Parser[string] {
	take := TakeWhile(pred)

	return func(c Cursor) (Result[string], bool, error) {
		r, ok, err := take(c)
		if err != nil || !ok || r.Value == "" {
			return Result[string]{}, false, err
		}

		return r, true, nil
	}
}

// EOF matches only at the end of the text.
func EOF() Parser[struct{}] {
	return func(c Cursor) (Result[struct{}], bool, error) {
		if !c.EOF() {
			return Result[struct{}]{}, false, nil
		}

		return Result[struct{}]{Cursor: c}, true, nil
	}
}

// Map transforms the value of a successful match.
func Map[A, B any](p Parser[A], f func(A) B) Parser[B] {
	return func(c Cursor) (Result[B], bool, error) {
		r, ok, err := p(c)
		if err != nil || !ok {
			return Result[B]{}, false, err
		}

		return Result[B]{Cursor: r.Cursor, Value: f(r.Value)}, true, nil
	}
}

// Bind transforms a successful match with a function that may reject it
// (ok == false) or abort the parse (err != nil). The function receives the
// starting Cursor and the match so it can report exact spans.
func Bind[A, B any](
	p Parser[A],
	f func(start Cursor, r Result[A]) (Result[B], bool, error),
) Parser[B] {
	return func(c Cursor) (Result[B], bool, error) {
		r, ok, err := p(c)
		if err != nil || !ok {
			return Result[B]{}, false, err
		}

		return f(c, r)
	}
}

// Seq matches a followed by b.
func Seq[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	return func(c Cursor) (Result[Pair[A, B]], bool, error) {
		ra, ok, err := a(c)
		if err != nil || !ok {
			return Result[Pair[A, B]]{}, false, err
		}

		rb, ok, err := b(ra.Cursor)
		if err != nil || !ok {
			return Result[Pair[A, B]]{}, false, err
		}

		return Result[Pair[A, B]]{
			Cursor: rb.Cursor,
			Value:  Pair[A, B]{First: ra.Value, Second: rb.Value},
		}, true, nil
	}
}

// Left matches a followed by b and keeps the value of a.
func Left[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return Map(Seq(a, b), func(p Pair[A, B]) A { return p.First })
}

// Right matches a followed by b and keeps the value of b.
func Right[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return Map(Seq(a, b), func(p Pair[A, B]) B { return p.Second })
}

// Alt tries each parser in order and returns the first match.
// Errors from an alternative abort immediately.
func Alt[T any](ps ...Parser[T]) Parser[T] {
	return func(c Cursor) (Result[T], bool, error) {
		for _, p := range ps {
			r, ok, err := p(c)
			if err != nil {
				return Result[T]{}, false, err
			}

			if ok {
				return r, true, nil
			}
		}

		return Result[T]{}, false, nil
	}
}

// Many matches p zero or more times. Matching stops early if p succeeds
// without consuming input.
func Many[T any](p Parser[T]) Parser[[]T] {
	return func(c Cursor) (Result[[]T], bool, error) {
		var values []T

		cur := c
		for {
			r, ok, err := p(cur)
			if err != nil {
				return Result[[]T]{}, false, err
			}

			if !ok {
				break
			}

			values = append(values, r.Value)

			if r.Cursor.Offset() == cur.Offset() {
				break
			}

			cur = r.Cursor
		}

		return Result[[]T]{Cursor: cur, Value: values}, true, nil
	}
}

// Many1 is [Many] requiring at least one match.
func Many1[T any](p Parser[T]) Parser[[]T] {
	many := Many(p)

	return func(c Cursor) (Result[[]T], bool, error) {
		r, ok, err := many(c)
		if err != nil || !ok || len(r.Value) == 0 {
			return Result[[]T]{}, false, err
		}

		return r, true, nil
	}
}

// Optional matches p or, failing that, succeeds with def without consuming.
func Optional[T any](p Parser[T], def T) Parser[T] {
	return func(c Cursor) (Result[T], bool, error) {
		r, ok, err := p(c)
		if err != nil {
			return Result[T]{}, false, err
		}

		if !ok {
			return Result[T]{Cursor: c, Value: def}, true, nil
		}

		return r, true, nil
	}
}

// Peek matches p without consuming input.
func Peek[T any](p Parser[T]) Parser[T] {
	return func(c Cursor) (Result[T], bool, error) {
		r, ok, err := p(c)
		if err != nil || !ok {
			return Result[T]{}, false, err
		}

		return Result[T]{Cursor: c, Value: r.Value}, true, nil
	}
}

// Span records the byte range a successful match of p covered.
func Span[T any](p Parser[T]) Parser[Spanned[T]] {
	return func(c Cursor) (Result[Spanned[T]], bool, error) {
		r, ok, err := p(c)
		if err != nil || !ok {
			return Result[Spanned[T]]{}, false, err
		}

		return Result[Spanned[T]]{
			Cursor: r.Cursor,
			Value: Spanned[T]{
				Value:  r.Value,
				Offset: c.Offset(),
				Length: r.Cursor.Offset() - c.Offset(),
			},
		}, true, nil
	}
}

// Lazy defers construction of a parser until it is first used, which lets
// recursive grammar rules refer to themselves.
func Lazy[T any](f func() Parser[T]) Parser[T] {
	get := sync.OnceValue(f)

	return func(c Cursor) (Result[T], bool, error) {
		return get()(c)
	}
}
