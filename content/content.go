package content

import (
	"context"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/actlang/lang"
	"github.com/ardnew/actlang/log"
)

// Kind classifies an entity by the list it was loaded from.
type Kind string

// Entity kinds.
const (
	KindCard     Kind = "card"
	KindBuilding Kind = "building"
)

// Entity is one card or building.
type Entity struct {
	Name    string            `yaml:"name"    json:"name"`
	Cost    int               `yaml:"cost"    json:"cost"`
	Tags    []string          `yaml:"tags"    json:"tags,omitempty"`
	Actions map[string]string `yaml:"actions" json:"actions"`

	Kind Kind `yaml:"-" json:"kind"`
}

// Triggers returns the entity's action triggers in sorted order.
func (e *Entity) Triggers() []string {
	names := make([]string, 0, len(e.Actions))
	for name := range e.Actions {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// File is the decoded content of one data file.
type File struct {
	Path      string    `yaml:"-"         json:"path,omitempty"`
	Cards     []*Entity `yaml:"cards"     json:"cards"`
	Buildings []*Entity `yaml:"buildings" json:"buildings"`
}

// Entities returns every card followed by every building.
func (f *File) Entities() []*Entity {
	return slices.Concat(f.Cards, f.Buildings)
}

// Find returns the entity with the given name.
func (f *File) Find(name string) (*Entity, bool) {
	for _, e := range f.Entities() {
		if e.Name == name {
			return e, true
		}
	}

	return nil, false
}

// Option configures loading, checking, and running content.
type Option func(*config)

type config struct {
	logger log.Logger
	cache  *lang.Cache
}

// WithLogger sets the logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithCache sets the parse cache for action source text. A nil cache
// parses every action anew. The default is the package-level cache of
// package lang.
func WithCache(cache *lang.Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

func applyOptions(opts ...Option) config {
	cfg := config{cache: lang.DefaultCache()}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func (c config) parse(ctx context.Context, src string) (lang.Expr, error) {
	if c.cache != nil {
		return c.cache.Parse(ctx, src)
	}

	return lang.Parse(ctx, src, lang.WithLogger(c.logger))
}

// Load decodes a content file from r. Unknown fields and duplicate entity
// names are errors.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*File, error) {
	cfg := applyOptions(opts...)

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	var f File
	if err := yaml.UnmarshalContext(ctx, data, &f, yaml.Strict()); err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	seen := make(map[string]Kind)

	for kind, list := range map[Kind][]*Entity{KindCard: f.Cards, KindBuilding: f.Buildings} {
		for _, e := range list {
			if e == nil {
				return nil, ErrLoad.Errorf("empty %s entry", kind)
			}

			e.Kind = kind
		}
	}

	for _, e := range f.Entities() {
		if e.Name == "" {
			return nil, ErrLoad.Errorf("%s without a name", e.Kind)
		}

		if prev, dup := seen[e.Name]; dup {
			return nil, ErrDuplicateEntity.Errorf("%q", e.Name).
				With(slog.String("first", string(prev)), slog.String("second", string(e.Kind)))
		}

		seen[e.Name] = e.Kind
	}

	cfg.logger.TraceContext(ctx, "load content",
		slog.Int("cards", len(f.Cards)),
		slog.Int("buildings", len(f.Buildings)))

	return &f, nil
}

// LoadFile decodes the content file at path.
func LoadFile(ctx context.Context, path string, opts ...Option) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, ErrLoad.Wrap(err).With(slog.String("path", path))
	}
	defer fd.Close()

	f, err := Load(ctx, fd, opts...)
	if err != nil {
		return nil, lang.WrapError(err).With(slog.String("path", path))
	}

	f.Path = path

	return f, nil
}
