package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/actlang/lang"
	"github.com/ardnew/actlang/log"
)

// Eval evaluates programs given on the command line, or read from stdin when
// there are none, and prints each result.
type Eval struct {
	Bindings `embed:""`

	Program []string `arg:"" help:"Program text to evaluate, one program per argument." name:"program" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	term := stdioFrom(ctx)

	programs := e.Program
	if len(programs) == 0 {
		data, err := io.ReadAll(term.in)
		if err != nil {
			return ErrReadSource.Wrap(err).With(pathAttr(stdinSource))
		}

		programs = []string{string(data)}
	}

	env, ev, err := e.session(ctx, len(e.Program) > 0)
	if err != nil {
		return err
	}

	for _, src := range programs {
		if strings.TrimSpace(src) == "" {
			continue
		}

		result, err := ev.Run(ctx, env, src)
		if err != nil {
			return lang.WrapError(err).With(slog.String("command", "eval"))
		}

		log.FromContext(ctx).DebugContext(ctx, "evaluated program",
			slog.Int("source_bytes", len(src)),
			slog.String("type", lang.TypeName(result)))

		fmt.Fprintln(term.out, lang.FormatResult(result))
	}

	return nil
}
