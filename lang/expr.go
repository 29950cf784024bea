package lang

import (
	"strconv"
	"strings"
)

// Span locates an expression within the source text it was parsed from.
// Offset and Length are measured in bytes.
type Span struct {
	Source string
	Offset int
	Length int
}

// End returns the byte offset just past the span.
func (s Span) End() int { return s.Offset + s.Length }

// Text returns the substring of Source covered by the span.
func (s Span) Text() string {
	start := min(max(s.Offset, 0), len(s.Source))
	end := min(max(s.End(), start), len(s.Source))

	return s.Source[start:end]
}

// IsZero reports whether the span carries no source at all.
func (s Span) IsZero() bool { return s.Source == "" && s.Offset == 0 && s.Length == 0 }

// Join returns the smallest span covering both s and t.
// Both spans must refer to the same source.
func (s Span) Join(t Span) Span {
	start := min(s.Offset, t.Offset)
	end := max(s.End(), t.End())

	return Span{Source: s.Source, Offset: start, Length: end - start}
}

// Code is an unevaluated program fragment: either a parsed [Expr] or a
// [Stub] wrapping a value that was already evaluated by the caller.
// Methods that take code arguments run them with [Evaluator.Exec].
type Code interface {
	Span() Span
	String() string
}

// Expr is a node of the parsed syntax tree. Trees are immutable once built
// and may be shared between goroutines and environments.
//
// The concrete node types are [*Text], [*Number], [*Identifier], [*Keyword],
// [*Deferred], [*Chain], and [*Block].
type Expr interface {
	Code
	expr()
}

// Text is a quoted string literal.
type Text struct {
	Value string
	Pos   Span
}

// Number is a signed integer literal.
type Number struct {
	Value int
	Pos   Span
}

// Identifier names a method or a variable.
type Identifier struct {
	Name string
	Pos  Span
}

// Keyword is a "--name" option marker. The value following it in a chain,
// if any, is passed to the called method as a named option.
type Keyword struct {
	Name string
	Pos  Span
}

// Deferred is a quoted expression. It evaluates to a [Quote] of Inner
// instead of evaluating Inner.
type Deferred struct {
	Inner Expr
	Pos   Span
}

// Chain is a sequence of two or more expressions: the unit of execution.
type Chain struct {
	Items []Expr
	Pos   Span
}

// Block is a parenthesized chain.
type Block struct {
	Body Expr
	Pos  Span
}

func (*Text) expr()       {}
func (*Number) expr()     {}
func (*Identifier) expr() {}
func (*Keyword) expr()    {}
func (*Deferred) expr()   {}
func (*Chain) expr()      {}
func (*Block) expr()      {}

func (e *Text) Span() Span       { return e.Pos }
func (e *Number) Span() Span     { return e.Pos }
func (e *Identifier) Span() Span { return e.Pos }
func (e *Keyword) Span() Span    { return e.Pos }
func (e *Deferred) Span() Span   { return e.Pos }
func (e *Chain) Span() Span      { return e.Pos }
func (e *Block) Span() Span      { return e.Pos }

func (e *Text) String() string { return quoteText(e.Value) }

func (e *Number) String() string { return strconv.Itoa(e.Value) }

func (e *Identifier) String() string { return e.Name }

func (e *Keyword) String() string { return optionPrefix + e.Name }

func (e *Deferred) String() string { return "'" + e.Inner.String() }

func (e *Chain) String() string {
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = item.String()
	}

	return strings.Join(parts, " ")
}

func (e *Block) String() string { return "(" + e.Body.String() + ")" }

// items returns the expressions e runs as a chain.
func items(e Expr) []Expr {
	switch x := e.(type) {
	case *Chain:
		return x.Items
	case *Block:
		if c, ok := x.Body.(*Chain); ok {
			return c.Items
		}

		return []Expr{x.Body}
	default:
		return []Expr{e}
	}
}

// quoteText renders s as a text literal. Only double quotes are escaped, so
// text ending in a backslash has no literal form: "x\" does not parse.
func quoteText(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
