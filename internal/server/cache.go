package server

import "sync"

// CachePort is the hot-state cache collaborator: hset/hget over string
// fields within a string key, used to persist the table:{id}:state
// snapshot after every applied action.
type CachePort interface {
	HSet(key string, fields map[string]string)
	HGet(key, field string) (string, bool)
}

// InMemoryCache is a CachePort backed by an RWMutex-guarded map of maps. It is the default wiring
// for this port (a Redis-backed implementation is the natural production
// target, but no Redis client appears anywhere in the example pack's
// go.mod files, so adding one here would be inventing a dependency rather
// than reusing the corpus — see DESIGN.md).
type InMemoryCache struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewInMemoryCache returns an empty cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[string]map[string]string)}
}

// HSet stores fields under key, overwriting any existing values for those
// field names but leaving other fields on the same key untouched.
func (c *InMemoryCache) HSet(key string, fields map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.data[key]
	if !ok {
		bucket = make(map[string]string, len(fields))
		c.data[key] = bucket
	}
	for k, v := range fields {
		bucket[k] = v
	}
}

// HGet returns the value stored at key/field, or ("", false) if absent.
func (c *InMemoryCache) HGet(key, field string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bucket, ok := c.data[key]
	if !ok {
		return "", false
	}
	v, ok := bucket[field]
	return v, ok
}
