package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/actlang/content"
	"github.com/ardnew/actlang/log"
)

var (
	diagPathStyle = lipgloss.NewStyle().Bold(true)
	diagErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	diagOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Check loads content files and reports every action that does not parse.
type Check struct {
	Files []string `arg:"" help:"Content files (YAML) to check." name:"file" type:"existingfile"`
	Quiet bool     `help:"Only report problems." short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	term := stdioFrom(ctx)
	logger := log.FromContext(ctx).Named("content")
	problems := 0

	for _, path := range c.Files {
		f, err := content.LoadFile(ctx, path, content.WithLogger(logger))
		if err != nil {
			problems++

			fmt.Fprintf(term.err, "%s: %s\n", diagPathStyle.Render(path), diagErrStyle.Render(err.Error()))

			continue
		}

		diags := content.Check(ctx, f, content.WithLogger(logger))
		problems += len(diags)

		for _, d := range diags {
			fmt.Fprintln(term.err, diagErrStyle.Render(d.Error()))
		}

		if len(diags) == 0 && !c.Quiet {
			fmt.Fprintf(term.out, "%s %s\n",
				diagPathStyle.Render(path),
				diagOKStyle.Render(fmt.Sprintf("ok (%d entities)", len(f.Entities()))))
		}
	}

	if problems > 0 {
		return ErrCheckFailed.With(
			slog.Int("files", len(c.Files)),
			slog.Int("problems", problems))
	}

	return nil
}
