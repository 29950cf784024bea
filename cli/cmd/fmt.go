package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/actlang/lang"
)

// Fmt parses a program and writes it back in the chosen format.
type Fmt struct {
	Source Canonical `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON      `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML      `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST       `cmd:""                    help:"Format as an indented syntax tree dump."`
}

// Input names the program file a formatter reads.
type Input struct {
	File string `arg:"" default:"-" help:"Program file or '-' for stdin." name:"file"`
}

// parse reads and parses the program named by in.
func (in Input) parse(ctx context.Context, format string) (lang.Expr, error) {
	var r io.Reader = stdioFrom(ctx).in

	if in.File != stdinSource {
		f, err := os.Open(in.File)
		if err != nil {
			return nil, ErrReadSource.Wrap(err).With(pathAttr(in.File))
		}
		defer f.Close()

		r = f
	}

	e, err := lang.ParseReader(ctx, r)
	if err != nil {
		return nil, lang.WrapError(err).With(
			slog.String("format", format),
			pathAttr(in.File))
	}

	return e, nil
}

// Canonical formats a program as canonical source text.
type Canonical struct {
	Input `embed:""`
}

// Run executes the fmt source command.
func (c *Canonical) Run(ctx context.Context) error {
	e, err := c.parse(ctx, "source")
	if err != nil {
		return err
	}

	return lang.Format(ctx, stdioFrom(ctx).out, e)
}

// JSON formats the syntax tree of a program as JSON.
type JSON struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width; 0 for compact output." short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	e, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return lang.FormatJSON(ctx, stdioFrom(ctx).out, e, j.Indent)
}

// YAML formats the syntax tree of a program as YAML.
type YAML struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width; 0 for flow style." short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	e, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return lang.FormatYAML(ctx, stdioFrom(ctx).out, e, y.Indent)
}

// AST dumps the syntax tree of a program with node spans.
type AST struct {
	Input `embed:""`

	Indent int `default:"2" help:"Indent width." short:"i"`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) error {
	e, err := a.parse(ctx, "ast")
	if err != nil {
		return err
	}

	return lang.FormatAST(ctx, stdioFrom(ctx).out, e, a.Indent)
}
