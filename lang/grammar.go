package lang

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/ardnew/actlang/lang/scan"
)

const (
	commentPrefix = '#'
	deferPrefix   = '\''
	optionPrefix  = "--"
	textQuote     = '"'
	textEscape    = '\\'
	blockOpen     = '('
	blockClose    = ')'
)

// identSymbols are the non-alphanumeric characters allowed in identifiers.
const identSymbols = "+-*/<>=!?_$%&.:@^~|"

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		strings.ContainsRune(identSymbols, r)
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

// isBoundary reports whether an atom may end before the cursor.
func isBoundary(c scan.Cursor) bool {
	r, size := c.Peek()

	return size == 0 || unicode.IsSpace(r) ||
		r == blockOpen || r == blockClose || r == commentPrefix
}

// grammar returns the program parser. It is built once and shared; every
// production is a pure function of its cursor.
var grammar = sync.OnceValue(func() scan.Parser[Expr] {
	g := new(rules)

	return g.program()
})

type rules struct {
	expression scan.Parser[Expr]
}

func spanAt(start, end scan.Cursor) Span {
	return Span{
		Source: start.Text(),
		Offset: start.Offset(),
		Length: end.Offset() - start.Offset(),
	}
}

func syntaxError(start, end scan.Cursor, format string, args ...any) error {
	return newParseError(spanAt(start, end), ErrSyntax.Errorf(format, args...))
}

// skip consumes whitespace and line comments.
func (g *rules) skip() scan.Parser[[]string] {
	comment := scan.Right(
		scan.Rune(commentPrefix),
		scan.TakeWhile(func(r rune) bool { return r != '\n' }),
	)

	return scan.Many(scan.Alt(scan.TakeWhile1(unicode.IsSpace), comment))
}

// bounded fails the parse if the atom that ended at r is directly followed by
// a character that cannot separate expressions.
func bounded[T any](what string) func(scan.Cursor, scan.Result[T]) (scan.Result[T], bool, error) {
	return func(start scan.Cursor, r scan.Result[T]) (scan.Result[T], bool, error) {
		if isBoundary(r.Cursor) {
			return r, true, nil
		}

		bad, _ := r.Cursor.Peek()

		return r, false, syntaxError(start, r.Cursor.Next(),
			"unexpected character %q after %s", bad, what)
	}
}

// text matches a double-quoted literal. A backslash escapes a double quote
// and is kept verbatim before any other character.
func (g *rules) text() scan.Parser[Expr] {
	lit := func(c scan.Cursor) (scan.Result[string], bool, error) {
		if r, _ := c.Peek(); r != textQuote {
			return scan.Result[string]{}, false, nil
		}

		var buf strings.Builder

		cur := c.Next()
		for {
			r, size := cur.Peek()

			switch {
			case size == 0:
				return scan.Result[string]{}, false,
					syntaxError(c, cur, "unterminated text")

			case r == textQuote:
				return scan.Result[string]{Cursor: cur.Next(), Value: buf.String()}, true, nil

			case r == textEscape:
				if next, _ := cur.Next().Peek(); next == textQuote {
					buf.WriteRune(textQuote)

					cur = cur.Next().Next()

					continue
				}

				buf.WriteRune(r)

			default:
				buf.WriteRune(r)
			}

			cur = cur.Advance(size)
		}
	}

	return node(
		scan.Bind(scan.Parser[string](lit), bounded[string]("text")),
		func(s string, pos Span) Expr { return &Text{Value: s, Pos: pos} },
	)
}

// number matches a signed integer. A sign is only part of a number when a
// digit follows it, so "-" and "-x" remain identifiers.
func (g *rules) number() scan.Parser[Expr] {
	sign := scan.Optional(
		scan.Map(scan.Satisfy(func(r rune) bool { return r == '-' || r == '+' }),
			func(r rune) string { return string(r) }),
		"",
	)

	digits := scan.TakeWhile1(isDigit)

	literal := scan.Bind(
		scan.Seq(sign, digits),
		func(start scan.Cursor, r scan.Result[scan.Pair[string, string]]) (scan.Result[Expr], bool, error) {
			end := r.Cursor

			// Digits running straight into identifier characters ("12ab")
			// are a malformed number, not a number followed by a name.
			if trail, _ := end.Peek(); !isBoundary(end) && isIdentRune(trail) {
				tail, _, _ := scan.TakeWhile(isIdentRune)(end)

				return scan.Result[Expr]{}, false,
					syntaxError(start, tail.Cursor, "malformed number %q", start.Between(tail.Cursor))
			}

			if !isBoundary(end) {
				bad, _ := end.Peek()

				return scan.Result[Expr]{}, false,
					syntaxError(start, end.Next(), "unexpected character %q after number", bad)
			}

			n, err := strconv.Atoi(r.Value.First + r.Value.Second)
			if err != nil {
				return scan.Result[Expr]{}, false,
					syntaxError(start, end, "number %s out of range", start.Between(end))
			}

			return scan.Result[Expr]{
				Cursor: end,
				Value:  &Number{Value: n, Pos: spanAt(start, end)},
			}, true, nil
		},
	)

	return literal
}

// deferred matches a quoted expression.
func (g *rules) deferred() scan.Parser[Expr] {
	return scan.Bind(
		scan.Rune(deferPrefix),
		func(start scan.Cursor, r scan.Result[rune]) (scan.Result[Expr], bool, error) {
			inner, ok, err := g.expression(r.Cursor)
			if err != nil {
				return scan.Result[Expr]{}, false, err
			}

			if !ok {
				return scan.Result[Expr]{}, false,
					syntaxError(start, r.Cursor.Next(), "expected expression after %q", deferPrefix)
			}

			return scan.Result[Expr]{
				Cursor: inner.Cursor,
				Value:  &Deferred{Inner: inner.Value, Pos: spanAt(start, inner.Cursor)},
			}, true, nil
		},
	)
}

// option matches "--name". A bare "--" is left for the identifier rule.
func (g *rules) option() scan.Parser[Expr] {
	return node(
		scan.Bind(
			scan.Right(scan.Literal(optionPrefix), scan.TakeWhile1(isIdentRune)),
			bounded[string]("option"),
		),
		func(name string, pos Span) Expr { return &Keyword{Name: name, Pos: pos} },
	)
}

func (g *rules) identifier() scan.Parser[Expr] {
	return node(
		scan.Bind(scan.TakeWhile1(isIdentRune), bounded[string]("identifier")),
		func(name string, pos Span) Expr { return &Identifier{Name: name, Pos: pos} },
	)
}

// block matches a parenthesized chain.
func (g *rules) block(chain scan.Parser[Expr]) scan.Parser[Expr] {
	skip := g.skip()

	return scan.Bind(
		scan.Rune(blockOpen),
		func(start scan.Cursor, r scan.Result[rune]) (scan.Result[Expr], bool, error) {
			body, ok, err := scan.Right(skip, chain)(r.Cursor)
			if err != nil {
				return scan.Result[Expr]{}, false, err
			}

			rest, _, _ := skip(r.Cursor)
			if ok {
				rest, _, _ = skip(body.Cursor)
			}

			end := rest.Cursor

			next, size := end.Peek()

			switch {
			case size == 0:
				return scan.Result[Expr]{}, false,
					syntaxError(start, end, "unclosed block")

			case next != blockClose:
				return scan.Result[Expr]{}, false,
					syntaxError(end, end.Next(), "unexpected character %q in block", next)

			case !ok:
				return scan.Result[Expr]{}, false,
					syntaxError(start, end.Next(), "empty block")
			}

			end = end.Next()

			return scan.Result[Expr]{
				Cursor: end,
				Value:  &Block{Body: body.Value, Pos: spanAt(start, end)},
			}, true, nil
		},
	)
}

// chain matches one or more expressions separated by whitespace or comments.
// A single expression is returned bare.
func (g *rules) chain() scan.Parser[Expr] {
	return scan.Map(
		scan.Many1(scan.Right(g.skip(), scan.Lazy(func() scan.Parser[Expr] {
			return g.expression
		}))),
		func(exprs []Expr) Expr {
			if len(exprs) == 1 {
				return exprs[0]
			}

			first, last := exprs[0].Span(), exprs[len(exprs)-1].Span()

			return &Chain{Items: exprs, Pos: first.Join(last)}
		},
	)
}

func (g *rules) program() scan.Parser[Expr] {
	chain := g.chain()

	g.expression = scan.Alt(
		g.text(),
		g.number(),
		g.deferred(),
		g.option(),
		g.identifier(),
		g.block(chain),
	)

	skip := g.skip()

	return func(c scan.Cursor) (scan.Result[Expr], bool, error) {
		prog, ok, err := chain(c)
		if err != nil {
			return scan.Result[Expr]{}, false, err
		}

		rest, _, _ := skip(c)
		if ok {
			rest, _, _ = skip(prog.Cursor)
		}

		end := rest.Cursor

		switch bad, size := end.Peek(); {
		case !ok && size == 0:
			return scan.Result[Expr]{}, false,
				newParseError(spanAt(c, end), ErrEmptyProgram)

		case size != 0:
			return scan.Result[Expr]{}, false,
				syntaxError(end, end.Next(), "unexpected character %q", bad)
		}

		return prog, true, nil
	}
}

// node builds an Expr from a match and the span it covered.
func node[T any](p scan.Parser[T], build func(T, Span) Expr) scan.Parser[Expr] {
	return scan.Bind(p, func(start scan.Cursor, r scan.Result[T]) (scan.Result[Expr], bool, error) {
		return scan.Result[Expr]{
			Cursor: r.Cursor,
			Value:  build(r.Value, spanAt(start, r.Cursor)),
		}, true, nil
	})
}
