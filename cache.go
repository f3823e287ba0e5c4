package strschema

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/reoring/strschema/internal/parser"
	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/jsonschema"
)

// DefaultCacheLimit is the number of entries a Cache keeps when no limit is
// configured.
const DefaultCacheLimit = 256

// Cache memoizes compilation results keyed by the exact input text. Errors
// are cached as well, since compilation is deterministic. Concurrent
// compiles of the same text run once. When full, the oldest entry is
// evicted.
//
// A Cache is safe for concurrent use. The zero value is not usable; call
// NewCache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string
	limit   int
	hits    int
	misses  int

	group singleflight.Group
	log   *slog.Logger
}

type cacheEntry struct {
	root   ir.Node
	schema *jsonschema.Schema
	err    error
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithCacheLimit bounds the number of cached entries. n <= 0 keeps the
// default.
func WithCacheLimit(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithCacheLogger routes hit/miss/evict debug records to l.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// NewCache returns an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: map[string]*cacheEntry{},
		limit:   DefaultCacheLimit,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Hits   int
	Misses int // number of compilations performed
	Size   int
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: len(c.entries)}
}

// Parse returns the cached IR for src. The tree is shared and must not be
// modified.
func (c *Cache) Parse(src string) (ir.Node, error) {
	e := c.load(src)
	return e.root, e.err
}

// Compile returns the schema for src. Each call receives its own copy.
func (c *Cache) Compile(src string) (*jsonschema.Schema, error) {
	e := c.load(src)
	if e.err != nil {
		return nil, e.err
	}
	return e.schema.Clone(), nil
}

func (c *Cache) lookup(src string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[src]
	if ok {
		c.hits++
	}
	return e, ok
}

func (c *Cache) load(src string) *cacheEntry {
	if e, ok := c.lookup(src); ok {
		c.log.Debug("schema cache hit", "bytes", len(src))
		return e
	}
	v, _, shared := c.group.Do(src, func() (any, error) {
		if e, ok := c.lookup(src); ok {
			return e, nil
		}
		e := compileEntry(src)
		c.store(src, e)
		return e, nil
	})
	c.log.Debug("schema cache miss", "bytes", len(src), "shared", shared)
	return v.(*cacheEntry)
}

func compileEntry(src string) *cacheEntry {
	n, err := parser.Parse(src)
	if err != nil {
		return &cacheEntry{err: err}
	}
	return &cacheEntry{root: n, schema: jsonschema.Emit(n)}
}

func (c *Cache) store(src string, e *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.misses++
	c.entries[src] = e
	c.order = append(c.order, src)
	for len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.log.Debug("schema cache evict", "bytes", len(oldest))
	}
}
