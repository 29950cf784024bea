package cmd

import (
	"context"

	"github.com/ardnew/actlang/cli/cmd/repl"
	"github.com/ardnew/actlang/log"
)

// Repl starts an interactive session.
type Repl struct {
	Bindings `embed:""`

	History bool `default:"true" help:"Persist input history in the cache directory." negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, ev, err := r.session(ctx, false)
	if err != nil {
		return err
	}

	var cacheDir string

	if r.History {
		if ktx := kongContextFrom(ctx); ktx != nil {
			cacheDir = ktx.Model.Vars()[CacheIdentifier]
		}
	}

	return repl.Run(ctx, env, ev, cacheDir, log.FromContext(ctx).Named("repl"))
}
