package lang

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"

	"github.com/ardnew/actlang/log"
)

// DefaultCacheSize is the number of distinct sources the default parse cache
// retains.
const DefaultCacheSize = 1024

// Cache memoizes parsed expression trees by source content.
//
// The same action text typically runs many times (an ability re-evaluated
// every turn), and trees are immutable, so every caller parsing identical
// text shares one tree. Concurrent parses of the same uncached text are
// collapsed into one. Parse errors are never cached.
//
// A Cache is safe for concurrent use.
type Cache struct {
	entries *lru.Cache
	group   singleflight.Group
	logger  log.Logger
}

// cached pairs a tree with its source so hash collisions are detected.
type cached struct {
	source string
	expr   Expr
}

// NewCache returns a Cache holding at most size trees.
func NewCache(size int, opts ...Option) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidCacheLimit.
			With(slog.Int("size", size))
	}

	entries, err := lru.New(size)
	if err != nil {
		return nil, ErrInvalidCacheLimit.Wrap(err)
	}

	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cache{entries: entries, logger: cfg.logger}, nil
}

// Parse returns the tree for src, parsing it only if no identical source is
// cached.
func (c *Cache) Parse(ctx context.Context, src string) (Expr, error) {
	hash := xxh3.HashString(src)

	if v, ok := c.entries.Get(hash); ok {
		if hit, ok := v.(cached); ok && hit.source == src {
			c.logger.TraceContext(ctx, "cache lookup",
				slog.String("source_hash", strconv.FormatUint(hash, 16)),
				slog.Bool("cache_hit", true))

			return hit.expr, nil
		}
	}

	c.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", false))

	key := strconv.FormatUint(hash, 36)

	v, err, shared := c.group.Do(key, func() (any, error) {
		e, err := Parse(ctx, src, WithLogger(c.logger))
		if err != nil {
			return nil, err
		}

		// Keep the first source stored under a colliding hash.
		if prev, ok := c.entries.Get(hash); ok {
			if hit, ok := prev.(cached); ok && hit.source != src {
				return cached{source: src, expr: e}, nil
			}
		}

		entry := cached{source: src, expr: e}
		c.entries.Add(hash, entry)

		return entry, nil
	})
	if err != nil {
		return nil, err
	}

	entry, ok := v.(cached)
	if !ok || entry.source != src {
		// A colliding source won the flight; parse our own text directly.
		return Parse(ctx, src, WithLogger(c.logger))
	}

	if shared {
		c.logger.TraceContext(ctx, "parse shared",
			slog.String("source_hash", strconv.FormatUint(hash, 16)))
	}

	return entry.expr, nil
}

// Len returns the number of cached trees.
func (c *Cache) Len() int { return c.entries.Len() }

// Purge removes every cached tree.
func (c *Cache) Purge() { c.entries.Purge() }

var defaultCache = sync.OnceValue(func() *Cache {
	c, err := NewCache(DefaultCacheSize)
	if err != nil {
		panic(err)
	}

	return c
})

// DefaultCache returns the package-level cache.
func DefaultCache() *Cache { return defaultCache() }

// ParseCached parses src through the package-level cache.
func ParseCached(ctx context.Context, src string, opts ...Option) (Expr, error) {
	cfg := applyOptions(opts...)
	if cfg.cache == nil {
		return Parse(ctx, src, opts...)
	}

	return cfg.cache.Parse(ctx, src)
}

// ClearCache removes all trees from the package-level cache.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	defaultCache().Purge()
}
