package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax            = NewError("syntax error")
	ErrEmptyProgram      = NewError("empty program")
	ErrReadInput         = NewError("failed to read input")
	ErrUnresolved        = NewError("unresolved identifier")
	ErrNotCallable       = NewError("not callable")
	ErrArity             = NewError("wrong number of arguments")
	ErrTooManyArguments  = NewError("too many arguments")
	ErrStrayOption       = NewError("option outside of a call")
	ErrConversion        = NewError("type mismatch")
	ErrAlreadyDefined    = NewError("already defined")
	ErrGroundScope       = NewError("cannot pop the ground scope")
	ErrAliasCycle        = NewError("alias cycle")
	ErrDomain            = NewError("value out of domain")
	ErrInvalidCode       = NewError("invalid code")
	ErrInvalidCacheLimit = NewError("invalid cache size")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so errors
// derived from a sentinel with [Error.Wrap], [Error.With], or [Error.Errorf]
// still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// Errorf wraps a formatted detail message.
func (e *Error) Errorf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports source text that does not match the grammar.
// Its message includes the offending source line with the span underlined.
type ParseError struct {
	Span Span
	Err  error
}

func newParseError(span Span, err error) *ParseError {
	return &ParseError{Span: span, Err: err}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return "parse error: " + e.Err.Error() + "\n" + Snippet(e.Span)
}

// Message returns the explanation without the source excerpt.
func (e *ParseError) Message() string { return e.Err.Error() }

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ParseError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return spanLogValue(e.Err, e.Span)
}

// EvalError reports a failure while evaluating an expression.
// Its message includes the offending source line with the span underlined.
type EvalError struct {
	Span Span
	Err  error
}

func newEvalError(span Span, err error) *EvalError {
	return &EvalError{Span: span, Err: err}
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.Span.IsZero() {
		return "eval error: " + e.Err.Error()
	}

	return "eval error: " + e.Err.Error() + "\n" + Snippet(e.Span)
}

// Message returns the explanation without the source excerpt.
func (e *EvalError) Message() string { return e.Err.Error() }

// Unwrap implements error unwrapping for errors.Is/As.
func (e *EvalError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *EvalError) LogValue() slog.Value {
	return spanLogValue(e.Err, e.Span)
}

func spanLogValue(err error, span Span) slog.Value {
	attrs := []slog.Attr{
		slog.String("error", err.Error()),
		slog.Int("offset", span.Offset),
		slog.Int("length", span.Length),
		slog.String("text", span.Text()),
	}

	var ee *Error
	if errors.As(err, &ee) {
		attrs = append(attrs, ee.attrs...)
	}

	return slog.GroupValue(attrs...)
}

// Snippet renders the source line containing span with carets under the
// spanned text. A span crossing a line break is underlined to the end of its
// first line.
//
//	  3 | if (> hp 0) 'alive 'dead
//	           ^^
func Snippet(span Span) string {
	src := span.Source
	off := min(max(span.Offset, 0), len(src))

	lineStart := strings.LastIndexByte(src[:off], '\n') + 1

	lineEnd := len(src)
	if i := strings.IndexByte(src[off:], '\n'); i >= 0 {
		lineEnd = off + i
	}

	line := src[lineStart:lineEnd]
	lineNum := strings.Count(src[:lineStart], "\n") + 1

	var buf strings.Builder

	buf.WriteString("  ")
	buf.WriteString(strconv.Itoa(lineNum))
	buf.WriteString(" | ")
	buf.WriteString(line)
	buf.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	buf.WriteString(strings.Repeat(" ", len(strconv.Itoa(lineNum))+5))

	// Preserve tabs so the carets line up with the echoed source.
	for _, r := range src[lineStart:off] {
		if r == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}

	end := min(span.End(), lineEnd)
	width := max(utf8.RuneCountInString(src[off:max(end, off)]), 1)

	buf.WriteString(strings.Repeat("^", width))

	return buf.String()
}
