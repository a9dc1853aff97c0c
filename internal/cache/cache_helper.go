package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheNotAvailable = fmt.Errorf("cache not available")
	ErrCacheNotFound     = fmt.Errorf("cache key not found")
)

// CacheConfig holds TTL and key prefix for one cache domain.
type CacheConfig struct {
	TTL    time.Duration
	Prefix string
}

var (
	SubjectCacheConfig   = CacheConfig{TTL: 10 * time.Minute, Prefix: "subject"}
	CatalogCacheConfig   = CacheConfig{TTL: 30 * time.Minute, Prefix: "catalog"}
	AggregateCacheConfig = CacheConfig{TTL: 5 * time.Minute, Prefix: "aggregate"}
	StatsCacheConfig     = CacheConfig{TTL: 1 * time.Minute, Prefix: "stats"}
)

// CacheHelper wraps a Redis client with a key prefix and JSON codec.
// A nil client degrades gracefully: reads miss, writes are dropped.
type CacheHelper struct {
	client *redis.Client
	prefix string
}

func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{client: client, prefix: prefix}
}

func (h *CacheHelper) buildKey(key string) string {
	return fmt.Sprintf("%s:%s", h.prefix, key)
}

// Get unmarshals the cached value for key into dest.
func (h *CacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	if h.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := h.client.Get(ctx, h.buildKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheNotFound
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value for %s: %w", key, err)
	}
	return nil
}

// Set stores value under key with the given TTL.
func (h *CacheHelper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if h.client == nil {
		return ErrCacheNotAvailable
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for %s: %w", key, err)
	}

	if err := h.client.Set(ctx, h.buildKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys.
func (h *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if h.client == nil || len(keys) == 0 {
		return nil
	}

	fullKeys := make([]string, len(keys))
	for i, key := range keys {
		fullKeys[i] = h.buildKey(key)
	}

	if err := h.client.Del(ctx, fullKeys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// InvalidatePattern removes all keys matching the prefixed pattern.
func (h *CacheHelper) InvalidatePattern(ctx context.Context, pattern string) error {
	if h.client == nil {
		return nil
	}

	fullPattern := h.buildKey(pattern)
	iter := h.client.Scan(ctx, 0, fullPattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan keys for pattern %s: %w", pattern, err)
	}

	if len(keys) > 0 {
		if err := h.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys for pattern %s: %w", pattern, err)
		}
	}
	return nil
}

// CacheOrExecute returns the cached value for key, or runs fetch, caches
// the result and returns it through dest. Cache failures fall through to
// fetch so a dead Redis never blocks reads.
func (h *CacheHelper) CacheOrExecute(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() (interface{}, error)) error {
	if err := h.Get(ctx, key, dest); err == nil {
		return nil
	}

	value, err := fetch()
	if err != nil {
		return err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal fetched value for %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to copy fetched value for %s: %w", key, err)
	}

	// Best effort write-back
	_ = h.Set(ctx, key, value, ttl)

	return nil
}

// CacheManager groups the per-domain cache helpers.
type CacheManager struct {
	Subject   *CacheHelper
	Catalog   *CacheHelper
	Aggregate *CacheHelper
	Stats     *CacheHelper
}

// NewCacheManager builds helpers over one shared client. client may be
// nil; all helpers then operate in pass-through mode.
func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{
		Subject:   NewCacheHelper(client, SubjectCacheConfig.Prefix),
		Catalog:   NewCacheHelper(client, CatalogCacheConfig.Prefix),
		Aggregate: NewCacheHelper(client, AggregateCacheConfig.Prefix),
		Stats:     NewCacheHelper(client, StatsCacheConfig.Prefix),
	}
}
