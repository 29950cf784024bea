package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/actlang/log"
)

// maxAliasHops bounds alias resolution so a cycle fails instead of looping.
const maxAliasHops = 64

// Environment is a stack of scopes holding methods, variables, and
// converters.
//
// Lookups walk from the innermost scope outward and the first match wins, so
// an inner binding shadows an outer one until its scope is popped. The
// outermost (ground) scope is created with the Environment and can never be
// popped.
//
// An Environment is not safe for concurrent use. Evaluations sharing one must
// be serialized; independent evaluations should use independent
// environments.
type Environment struct {
	scopes []*scope
	logger log.Logger
}

type scope struct {
	methods    map[string]Method
	vars       map[string]any
	converters []converter
}

func newScope() *scope {
	return &scope{
		methods: make(map[string]Method),
		vars:    make(map[string]any),
	}
}

func (s *scope) has(name string) bool {
	_, isMethod := s.methods[name]
	_, isVar := s.vars[name]

	return isMethod || isVar
}

// NewEnvironment returns an Environment whose ground scope binds only the
// placeholder _ and the core converters.
func NewEnvironment(opts ...Option) *Environment {
	cfg := applyOptions(opts...)

	env := &Environment{
		scopes: []*scope{newScope()},
		logger: cfg.logger,
	}

	env.scopes[0].vars[PlaceholderName] = Placeholder

	CoreConverters(env)

	return env
}

// Logger returns the logger the Environment was created with.
func (env *Environment) Logger() log.Logger { return env.logger }

// Depth returns the number of scopes, including the ground scope.
func (env *Environment) Depth() int { return len(env.scopes) }

// Push opens a new innermost scope.
func (env *Environment) Push() {
	env.scopes = append(env.scopes, newScope())
}

// Pop discards the innermost scope and everything registered in it.
func (env *Environment) Pop() error {
	if len(env.scopes) <= 1 {
		return ErrGroundScope
	}

	env.scopes[len(env.scopes)-1] = nil
	env.scopes = env.scopes[:len(env.scopes)-1]

	return nil
}

// Scoped runs fn inside a new scope that is popped when fn returns.
func (env *Environment) Scoped(fn func() error) error {
	env.Push()
	defer env.truncate(len(env.scopes) - 1)

	return fn()
}

// truncate pops scopes until depth remain. It never removes the ground
// scope and tolerates scopes fn already popped.
func (env *Environment) truncate(depth int) {
	depth = max(depth, 1)
	for len(env.scopes) > depth {
		env.scopes[len(env.scopes)-1] = nil
		env.scopes = env.scopes[:len(env.scopes)-1]
	}
}

func (env *Environment) top() *scope { return env.scopes[len(env.scopes)-1] }

// Define binds m under its name in the innermost scope. Redefining a name
// already bound in that scope fails unless overwrite is set.
func (env *Environment) Define(m Method, overwrite bool) error {
	return env.define(env.top(), m.Name(), m, overwrite)
}

// DefineGlobal binds m in the ground scope, replacing any existing binding.
func (env *Environment) DefineGlobal(m Method) {
	_ = env.define(env.scopes[0], m.Name(), m, true)
}

func (env *Environment) define(s *scope, name string, m Method, overwrite bool) error {
	if !overwrite && s.has(name) {
		return ErrAlreadyDefined.Errorf("%q", name).
			With(slog.String("name", name))
	}

	delete(s.vars, name)
	s.methods[name] = m

	env.logger.Trace("define method",
		slog.String("name", name),
		slog.Int("arity", m.Arity()),
		slog.Bool("rest", m.Rest()),
		slog.Int("depth", len(env.scopes)))

	return nil
}

// DefineAlias binds name to whatever target resolves to at the time name is
// looked up, so redefining target later is visible through the alias.
func (env *Environment) DefineAlias(name, target string, overwrite bool) error {
	return env.define(env.top(), name, &alias{name: name, target: target}, overwrite)
}

// alias is a method binding resolved through another name at lookup time.
type alias struct {
	name   string
	target string
}

func (a *alias) Name() string { return a.name }
func (a *alias) Arity() int   { return 0 }
func (a *alias) Rest() bool   { return false }

func (a *alias) Call(context.Context, *Call) (any, error) {
	return nil, ErrUnresolved.Errorf("alias %q was not resolved", a.name)
}

// Set binds a variable in the innermost scope. Rebinding a name already
// bound in that scope fails unless overwrite is set.
func (env *Environment) Set(name string, value any, overwrite bool) error {
	return env.set(env.top(), name, value, overwrite)
}

// SetGlobal binds a variable in the ground scope, replacing any existing
// binding.
func (env *Environment) SetGlobal(name string, value any) {
	_ = env.set(env.scopes[0], name, value, true)
}

// Assign rebinds name in the innermost scope that already binds it, or in the
// innermost scope if none does.
func (env *Environment) Assign(name string, value any) {
	for i := len(env.scopes) - 1; i >= 0; i-- {
		if env.scopes[i].has(name) {
			_ = env.set(env.scopes[i], name, value, true)

			return
		}
	}

	_ = env.set(env.top(), name, value, true)
}

func (env *Environment) set(s *scope, name string, value any, overwrite bool) error {
	if !overwrite && s.has(name) {
		return ErrAlreadyDefined.Errorf("%q", name).
			With(slog.String("name", name))
	}

	delete(s.methods, name)
	s.vars[name] = value

	env.logger.Trace("set variable",
		slog.String("name", name),
		slog.String("type", TypeName(value)),
		slog.Int("depth", len(env.scopes)))

	return nil
}

// Lookup resolves name to a method or a variable value, innermost scope
// first.
func (env *Environment) Lookup(name string) (any, bool) {
	r, err := env.resolve(name)
	if err != nil || r.kind == resolvedNone {
		return nil, false
	}

	if r.kind == resolvedMethod {
		return r.method, true
	}

	return r.value, true
}

// LookupMethod resolves name to a method, following aliases.
func (env *Environment) LookupMethod(name string) (Method, bool) {
	r, err := env.resolve(name)
	if err != nil || r.kind != resolvedMethod {
		return nil, false
	}

	return r.method, true
}

// LookupVar resolves name to a variable value. Variables holding a method
// are returned as values.
func (env *Environment) LookupVar(name string) (any, bool) {
	for i := len(env.scopes) - 1; i >= 0; i-- {
		s := env.scopes[i]
		if v, ok := s.vars[name]; ok {
			return v, true
		}

		if _, ok := s.methods[name]; ok {
			return nil, false
		}
	}

	return nil, false
}

// Names returns every visible name in sorted order.
func (env *Environment) Names() []string {
	seen := make(map[string]struct{})

	for _, s := range env.scopes {
		for name := range s.methods {
			seen[name] = struct{}{}
		}

		for name := range s.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// resolvedKind classifies what a name refers to.
type resolvedKind int

const (
	resolvedNone resolvedKind = iota
	resolvedMethod
	resolvedValue
)

// resolved is the outcome of looking up a name: exactly one of method or
// value is meaningful, according to kind.
type resolved struct {
	kind   resolvedKind
	method Method
	value  any
}

// resolve finds the innermost binding of name. A variable holding a Method
// resolves as a method. Aliases are followed through their target's binding
// at the time of the lookup.
func (env *Environment) resolve(name string) (resolved, error) {
	for range maxAliasHops {
		r := env.resolveOnce(name)

		a, ok := r.method.(*alias)
		if r.kind != resolvedMethod || !ok {
			return r, nil
		}

		name = a.target
	}

	return resolved{}, ErrAliasCycle.Errorf("%q", name)
}

func (env *Environment) resolveOnce(name string) resolved {
	for i := len(env.scopes) - 1; i >= 0; i-- {
		s := env.scopes[i]

		if m, ok := s.methods[name]; ok {
			return resolved{kind: resolvedMethod, method: m}
		}

		if v, ok := s.vars[name]; ok {
			if m, ok := v.(Method); ok {
				return resolved{kind: resolvedMethod, method: m}
			}

			return resolved{kind: resolvedValue, value: v}
		}
	}

	return resolved{kind: resolvedNone}
}
