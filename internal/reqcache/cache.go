package reqcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Cache wraps a TTL store with in-flight request coalescing.
type Cache struct {
	store *gocache.Cache
	group singleflight.Group
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{store: gocache.New(ttl, ttl/2)}
}

// Key derives a stable cache key from the request's identifying parts.
// Parts are separated so "ab"+"c" and "a"+"bc" cannot collide.
func Key(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Do returns the cached value for key, or runs fn once to produce it.
// Concurrent callers with the same key share a single fn execution.
// The hit flag reports whether the value came from cache. Errors are
// never cached, so a later call retries.
func (c *Cache) Do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, bool, error) {
	if value, ok := c.store.Get(key); ok {
		return value, true, nil
	}
	value, err, shared := c.group.Do(key, func() (any, error) {
		if value, ok := c.store.Get(key); ok {
			return value, nil
		}
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.store.Set(key, value, gocache.DefaultExpiration)
		return value, nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, shared, nil
}

// Forget removes a key so the next call recomputes it.
func (c *Cache) Forget(key string) {
	c.store.Delete(key)
	c.group.Forget(key)
}

// ItemCount returns the number of live cached entries.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// NormalizeText canonicalizes narration text for cache keys so
// whitespace variants map to the same entry.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
