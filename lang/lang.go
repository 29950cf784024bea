package lang

import (
	"github.com/ardnew/actlang/log"
)

// Option configures parsing, environments, and evaluators.
type Option func(*config)

type config struct {
	logger log.Logger
	cache  *Cache
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithCache sets the parse cache an [Evaluator] uses for source text.
// A nil cache disables caching. The default is the package-level cache
// shared with [ParseCached].
func WithCache(cache *Cache) Option {
	return func(c *config) {
		c.cache = cache
	}
}

// applyOptions applies functional options to a default configuration.
func applyOptions(opts ...Option) config {
	cfg := config{cache: defaultCache()}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
