// Package cache provides a generic cache built on the key-value store.
//
// Values are serialized with sonic and stored with a TTL. The cache is
// used for storage stats and listing responses that are expensive to
// recompute; a miss is not an error.
//
// Basic usage:
//
//	c := cache.NewCache(kvStore)
//
//	stats := UserStorageStats{UserID: "u1", TotalSizeBytes: 42}
//	err := cache.Set(ctx, c, "stats:u1", stats, time.Minute)
//
//	cached, err := cache.Get[UserStorageStats](ctx, c, "stats:u1")
//
//	stats, err := cache.GetOrSet(ctx, c, "stats:u1", func() (UserStorageStats, error) {
//	    return recountFromDB(ctx, "u1")
//	}, time.Minute)
//
// Thread safety follows the underlying KV store; Redis and NATS KV are
// safe for concurrent use.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/eduardoinoa18/memorybox/pkg/internal/storage/kv"
)

// Cache is a KV-store backed cache.
type Cache struct {
	kvStore kv.KVStore
}

// NewCache creates a cache over the given KV store.
func NewCache(kvStore kv.KVStore) *Cache {
	return &Cache{
		kvStore: kvStore,
	}
}

// Get fetches and decodes a cached value.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set encodes and stores a value with a TTL.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, key, data, ttl)
}

// Delete removes a cache key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, key)
}

// Exists reports whether a cache key is present.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, key)
}

// GetOrSet returns the cached value, computing and storing it on a miss.
// A failed Set does not fail the call; the computed value is returned.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	var zero T

	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	value, err := getter()
	if err != nil {
		return zero, err
	}

	if setErr := Set(ctx, c, key, value, ttl); setErr != nil {
		return value, nil
	}

	return value, nil
}

// Clear deletes every key the store reports.
func (c *Cache) Clear(ctx context.Context) error {
	keys, err := c.kvStore.Keys(ctx, "*")
	if err != nil {
		return err
	}

	for _, key := range keys {
		if delErr := c.kvStore.Delete(ctx, key); delErr != nil {
			return delErr
		}
	}

	return nil
}
