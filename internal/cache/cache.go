package cache

import (
	"log"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a typed TTL cache over go-cache. Sources use it to keep
// per-URL enrichment results (resolved thumbnails, extracted text) so a
// failed publish retried next cycle does not refetch the page.
type Cache[K comparable, V any] struct {
	cache       *gocache.Cache
	mu          sync.RWMutex
	keyToString func(K) string
}

type CacheConfig struct {
	TTL time.Duration
}

func NewCache[K comparable, V any](config CacheConfig, keyToString func(K) string) *Cache[K, V] {
	if config.TTL == 0 {
		config.TTL = 1 * time.Hour
	}

	goCacheInstance := gocache.New(config.TTL, config.TTL/2)
	log.Printf("Cache: Initialized with TTL=%v", config.TTL)

	return &Cache[K, V]{
		cache:       goCacheInstance,
		keyToString: keyToString,
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stringKey := c.keyToString(key)
	value, found := c.cache.Get(stringKey)
	if !found {
		var zero V
		return zero, false
	}

	if typedValue, ok := value.(V); ok {
		return typedValue, true
	}

	var zero V
	return zero, false
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stringKey := c.keyToString(key)
	c.cache.Set(stringKey, value, gocache.DefaultExpiration)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
}

func (c *Cache[K, V]) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	return nil
}
