// Package cache provides the process-wide entity caches. It wraps a sharded
// in-memory sturdyc client behind the small surface the services need:
// read, populate, evict one, evict all.
package cache

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Config controls the size and lifetime of a cache instance.
type Config struct {
	// Capacity is the maximum number of entries before eviction kicks in.
	Capacity int
	// NumShards controls concurrency; more shards, less lock contention.
	NumShards int
	// TTL is how long an entry stays valid.
	TTL time.Duration
	// EvictionPercentage is the share of entries dropped when a shard is full.
	EvictionPercentage int
}

// DefaultConfig returns settings sized for the reference deployment, where
// the cache mirrors the full dataset.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                1 * time.Hour,
		EvictionPercentage: 10,
	}
}

// Cache is a key→snapshot cache. It is safe for concurrent use by multiple
// request-handling goroutines.
type Cache[T any] struct {
	client *sturdyc.Client[T]
}

// New builds a cache from cfg, falling back to defaults for zero fields.
func New[T any](cfg Config) *Cache[T] {
	def := DefaultConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.NumShards <= 0 {
		cfg.NumShards = def.NumShards
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.EvictionPercentage <= 0 || cfg.EvictionPercentage > 100 {
		cfg.EvictionPercentage = def.EvictionPercentage
	}

	return &Cache[T]{
		client: sturdyc.New[T](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
	}
}

// Get returns the cached value for key, if present and unexpired.
func (c *Cache[T]) Get(key string) (T, bool) {
	return c.client.Get(key)
}

// Put stores value under key, replacing any previous entry.
func (c *Cache[T]) Put(key string, value T) {
	c.client.Set(key, value)
}

// Evict drops the entry for key. Evicting an absent key is a no-op.
func (c *Cache[T]) Evict(key string) {
	c.client.Delete(key)
}

// EvictAll drops every entry, forcing subsequent reads through to the store.
func (c *Cache[T]) EvictAll() {
	for _, key := range c.client.ScanKeys() {
		c.client.Delete(key)
	}
}

// Size reports the current number of entries.
func (c *Cache[T]) Size() int {
	return c.client.Size()
}
