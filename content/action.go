package content

import (
	"context"
	"log/slog"

	"github.com/ardnew/actlang/lang"
	"github.com/ardnew/actlang/profile"
)

// Check parses every action in f and returns one diagnostic per action that
// fails to parse, in entity then trigger order. It returns nil if every
// action parses.
func Check(ctx context.Context, f *File, opts ...Option) []Diagnostic {
	cfg := applyOptions(opts...)

	var diags []Diagnostic

	for _, e := range f.Entities() {
		for _, trigger := range e.Triggers() {
			if _, err := cfg.parse(ctx, e.Actions[trigger]); err != nil {
				diags = append(diags, Diagnostic{
					Path:    f.Path,
					Entity:  e,
					Trigger: trigger,
					Err:     err,
				})
			}
		}
	}

	cfg.logger.DebugContext(ctx, "check content",
		slog.String("path", f.Path),
		slog.Int("entities", len(f.Cards)+len(f.Buildings)),
		slog.Int("diagnostics", len(diags)))

	return diags
}

// Bindings returns the variables an action of e sees: $name, $cost, $kind,
// $tags, and $trigger.
func Bindings(e *Entity, trigger string) map[string]any {
	tags := make([]any, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = t
	}

	return map[string]any{
		"$name":    e.Name,
		"$cost":    e.Cost,
		"$kind":    string(e.Kind),
		"$tags":    tags,
		"$trigger": trigger,
	}
}

// Run evaluates the action of e for trigger against env. The action runs in
// a new scope holding the entity's [Bindings], which is popped when it
// returns, so definitions the action makes with let are discarded; set
// --global persists.
func Run(
	ctx context.Context,
	env *lang.Environment,
	e *Entity,
	trigger string,
	opts ...Option,
) (any, error) {
	cfg := applyOptions(opts...)

	src, ok := e.Actions[trigger]
	if !ok {
		return nil, ErrUnknownTrigger.Errorf("%s %q has no %q action", e.Kind, e.Name, trigger).
			With(slog.Any("triggers", e.Triggers()))
	}

	code, err := cfg.parse(ctx, src)
	if err != nil {
		return nil, Diagnostic{Entity: e, Trigger: trigger, Err: err}
	}

	ev := lang.NewEvaluator(lang.WithLogger(cfg.logger), lang.WithCache(cfg.cache))

	var result any

	err = profile.Do(ctx, func(ctx context.Context) error {
		return env.Scoped(func() error {
			for name, v := range Bindings(e, trigger) {
				if err := env.Set(name, v, true); err != nil {
					return err
				}
			}

			var err error

			result, err = ev.Eval(ctx, env, code)

			return err
		})
	}, "entity", e.Name, "trigger", trigger)
	if err != nil {
		return nil, Diagnostic{Entity: e, Trigger: trigger, Err: err}
	}

	cfg.logger.TraceContext(ctx, "run action",
		slog.String("entity", e.Name),
		slog.String("trigger", trigger),
		slog.String("result", lang.FormatResult(result)))

	return result, nil
}

// RunNamed looks up the entity name in f and runs its action for trigger.
func RunNamed(
	ctx context.Context,
	env *lang.Environment,
	f *File,
	name, trigger string,
	opts ...Option,
) (any, error) {
	e, ok := f.Find(name)
	if !ok {
		return nil, ErrUnknownEntity.Errorf("%q", name)
	}

	return Run(ctx, env, e, trigger, opts...)
}
