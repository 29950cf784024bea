package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/ardnew/actlang/lang"
	"github.com/ardnew/actlang/lang/stdlib"
	"github.com/ardnew/actlang/log"
)

// Bindings are the flags shared by every command that evaluates programs.
type Bindings struct {
	Var    []string `help:"Bind a variable before evaluating."          placeholder:"NAME=VALUE" short:"v"`
	Decide []int    `help:"Answer choose prompts in order, then ask."   placeholder:"INDEX"`
}

// session builds the environment and evaluator a command runs programs
// with: the standard library, the --var bindings, and the prelude
// programs, in that order. Without prompt, choose fails once the --decide
// answers run out instead of asking on the terminal.
func (b *Bindings) session(ctx context.Context, prompt bool) (*lang.Environment, *lang.Evaluator, error) {
	logger := log.FromContext(ctx).Named("eval")
	decider := &promptDecider{answers: b.Decide}

	if prompt {
		term := stdioFrom(ctx)
		decider.in = bufio.NewReader(term.in)
		decider.out = term.err
	}

	env := stdlib.New(stdlib.WithLogger(logger), stdlib.WithDecider(decider))

	for _, kv := range b.Var {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, nil, ErrBadVariable.With(slog.String("var", kv))
		}

		if err := env.Set(strings.TrimSpace(name), parseValue(value), true); err != nil {
			return nil, nil, err
		}
	}

	ev := lang.NewEvaluator(lang.WithLogger(logger))

	for _, src := range preludeFrom(ctx) {
		if strings.TrimSpace(src.Text) == "" {
			continue
		}

		if _, err := ev.Run(ctx, env, src.Text); err != nil {
			return nil, nil, lang.WrapError(err).With(pathAttr(src.Path))
		}

		logger.DebugContext(ctx, "evaluated prelude", pathAttr(src.Path))
	}

	return env, ev, nil
}

// parseValue reads a --var value as an integer or boolean where it looks
// like one, and as text otherwise.
func parseValue(s string) any {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}

	switch s {
	case "true":
		return true
	case "false":
		return false
	}

	return s
}

// promptDecider answers choose prompts from a fixed list first, then by
// asking on the terminal.
type promptDecider struct {
	mu      sync.Mutex
	answers []int
	in      *bufio.Reader
	out     io.Writer
}

func (d *promptDecider) Decide(ctx context.Context, prompt string, options []any) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.answers) > 0 {
		n := d.answers[0]
		d.answers = d.answers[1:]

		return n, nil
	}

	if d.in == nil {
		return 0, ErrNoDecision.Errorf("%q", prompt)
	}

	fmt.Fprintln(d.out, prompt)

	for i, opt := range options {
		fmt.Fprintf(d.out, "  %d) %s\n", i, lang.FormatResult(opt))
	}

	type answer struct {
		line string
		err  error
	}

	ch := make(chan answer, 1)

	go func() {
		fmt.Fprint(d.out, "> ")

		line, err := d.in.ReadString('\n')
		ch <- answer{line, err}
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()

	case a := <-ch:
		if strings.TrimSpace(a.line) == "" && a.err != nil {
			return 0, ErrNoDecision.Wrap(a.err)
		}

		n, err := strconv.Atoi(strings.TrimSpace(a.line))
		if err != nil {
			return 0, ErrNoDecision.Wrap(err).With(slog.String("input", a.line))
		}

		return n, nil
	}
}
