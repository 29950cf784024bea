package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/actlang/lang/scan"
)

// Parse parses source text into an expression tree.
//
// A program is a chain of one or more expressions. A program of exactly one
// expression is returned bare; otherwise the result is a [*Chain]. Failures
// are reported as [*ParseError].
func Parse(ctx context.Context, src string, opts ...Option) (Expr, error) {
	cfg := applyOptions(opts...)

	r, ok, err := grammar()(scan.New(src))
	if err != nil {
		cfg.logger.TraceContext(ctx, "parse failed",
			slog.Int("source_bytes", len(src)),
			slog.Any("error", err))

		return nil, err
	}

	if !ok {
		// The program rule reports every failure as an error; this is
		// unreachable unless the grammar itself is broken.
		return nil, newParseError(Span{Source: src}, ErrSyntax)
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(src)),
		slog.String("root", nodeKind(r.Value)))

	return r.Value, nil
}

// MustParse is like [Parse] but panics on error. It is intended for
// source text that is fixed at compile time.
func MustParse(src string) Expr {
	e, err := Parse(context.Background(), src)
	if err != nil {
		panic(err)
	}

	return e
}

// ParseReader reads all of r and parses it through the default parse cache.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Expr, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseCached(ctx, string(data), opts...)
}

// nodeKind names the concrete type of an expression for logs and dumps.
func nodeKind(e Expr) string {
	switch e.(type) {
	case *Text:
		return "text"
	case *Number:
		return "number"
	case *Identifier:
		return "identifier"
	case *Keyword:
		return "option"
	case *Deferred:
		return "deferred"
	case *Chain:
		return "chain"
	case *Block:
		return "block"
	default:
		return "unknown"
	}
}
