package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a two-tier response cache: memory always, SQLite optionally.
type Cache struct {
	mem   *expirable.LRU[string, []byte]
	store *Store // nil when persistence is disabled
	ttl   time.Duration
}

// Options configures a Cache.
type Options struct {
	Size int           // Max in-memory entries; must be positive
	TTL  time.Duration // Entry lifetime for both tiers
	Path string        // SQLite file; empty disables persistence
}

// New creates a cache. A non-empty Path opens (and migrates) the
// persistent store.
func New(opts Options) (*Cache, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", opts.Size)
	}

	c := &Cache{
		mem: expirable.NewLRU[string, []byte](opts.Size, nil, opts.TTL),
		ttl: opts.TTL,
	}

	if opts.Path != "" {
		store, err := NewStore(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("open cache store: %w", err)
		}
		c.store = store
	}

	return c, nil
}

// Key derives the cache key for a tool invocation. The payload must be
// a canonical serialization of the request arguments.
func Key(tool string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(tool))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached response for key, consulting memory first and
// then the persistent store. A persistent hit is promoted into memory.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, ok := c.mem.Get(key); ok {
		return val, true
	}

	if c.store == nil {
		return nil, false
	}

	val, createdAt, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	if time.Since(createdAt) > c.ttl {
		_ = c.store.Delete(ctx, key)
		return nil, false
	}

	c.mem.Add(key, val)
	return val, true
}

// Put stores a response in both tiers.
func (c *Cache) Put(ctx context.Context, key string, val []byte) error {
	c.mem.Add(key, val)
	if c.store != nil {
		if err := c.store.Put(ctx, key, val, time.Now()); err != nil {
			return fmt.Errorf("persist cache entry: %w", err)
		}
	}
	return nil
}

// Purge drops every entry from both tiers.
func (c *Cache) Purge(ctx context.Context) error {
	c.mem.Purge()
	if c.store != nil {
		if err := c.store.Purge(ctx); err != nil {
			return fmt.Errorf("purge cache store: %w", err)
		}
	}
	return nil
}

// PruneExpired removes persistent rows older than the TTL. Memory
// entries expire on their own.
func (c *Cache) PruneExpired(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.DeleteOlderThan(ctx, time.Now().Add(-c.ttl))
}

// Len reports the number of in-memory entries.
func (c *Cache) Len() int {
	return c.mem.Len()
}

// Close releases the persistent store, if any.
func (c *Cache) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}
