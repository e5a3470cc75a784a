package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a fixed-size LRU whose entries also expire after a TTL.
type Cache[V any] struct {
	lru *lru.Cache[string, cacheItem[V]]
	ttl time.Duration
	now func() time.Time
}

// NewCache creates a cache holding at most size entries for ttl each.
func NewCache[V any](size int, ttl time.Duration) (*Cache[V], error) {
	l, err := lru.New[string, cacheItem[V]](size)
	if err != nil {
		return nil, err
	}
	return &Cache[V]{lru: l, ttl: ttl, now: time.Now}, nil
}

func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, cacheItem[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Get returns the cached value, or false when missing or expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	item, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(item.expiresAt) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return item.value, true
}

func (c *Cache[V]) Delete(key string) {
	c.lru.Remove(key)
}

func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
