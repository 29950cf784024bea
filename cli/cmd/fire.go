package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/actlang/content"
	"github.com/ardnew/actlang/lang"
	"github.com/ardnew/actlang/log"
)

// Fire fires one trigger of one entity from a content file and prints the
// result.
type Fire struct {
	Bindings `embed:""`

	File    string `arg:"" help:"Content file (YAML)."                name:"file"    type:"existingfile"`
	Entity  string `arg:"" help:"Name of the card or building."       name:"entity"`
	Trigger string `arg:"" help:"Action to fire."           default:"play" name:"trigger" optional:""`
}

// Run executes the run command.
func (r *Fire) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.FromContext(ctx).Named("content")

	f, err := content.LoadFile(ctx, r.File, content.WithLogger(logger))
	if err != nil {
		return err
	}

	env, _, err := r.session(ctx, true)
	if err != nil {
		return err
	}

	result, err := content.RunNamed(ctx, env, f, r.Entity, r.Trigger,
		content.WithLogger(logger))
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "run"),
			slog.String("entity", r.Entity),
			slog.String("trigger", r.Trigger))
	}

	fmt.Fprintln(stdioFrom(ctx).out, lang.FormatResult(result))

	return nil
}
