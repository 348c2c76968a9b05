package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blogapi/pkg/logger"
	"blogapi/pkg/metrics"
)

const (
	UserByIDKey = "user:id:%s"
)

func UserCacheKey(id string) string {
	return fmt.Sprintf(UserByIDKey, id)
}

type CacheStrategy interface {
	// ReadThrough serves dest from cache, or calls fetch and caches the
	// result. When fetch returns a nil value nothing is cached and
	// ErrNoValue is returned.
	ReadThrough(ctx context.Context, key string, dest interface{}, fetch func() (interface{}, error), expiration time.Duration) error
	Invalidate(ctx context.Context, key string)
	// Tombstone records that the value behind key is gone for good. A
	// read-through that raced with the delete may still write the old value
	// back, so readers check Tombstoned before trusting the cache.
	Tombstone(ctx context.Context, key string, expiration time.Duration)
	Tombstoned(ctx context.Context, key string) bool
}

type CacheManager struct {
	cache  Cache
	logger logger.Logger
}

func NewCacheManager(cache Cache, logger logger.Logger) CacheStrategy {
	return &CacheManager{
		cache:  cache,
		logger: logger,
	}
}

func (cm *CacheManager) ReadThrough(ctx context.Context, key string, dest interface{}, fetch func() (interface{}, error), expiration time.Duration) error {
	err := cm.cache.Get(ctx, key, dest)
	if err == nil {
		metrics.RecordCacheHit()
		return nil
	}
	metrics.RecordCacheMiss()

	if !errors.Is(err, ErrCacheMiss) {
		cm.logger.Warn("Cache read failed, falling back to source", logger.Fields{"key": key, "error": err.Error()})
	}

	data, err := fetch()
	if err != nil {
		return err
	}
	if data == nil {
		return ErrNoValue
	}

	if err := cm.cache.Set(ctx, key, data, expiration); err != nil {
		cm.logger.Warn("Cache write failed", logger.Fields{"key": key, "error": err.Error()})
	}

	return copyData(data, dest)
}

func (cm *CacheManager) Invalidate(ctx context.Context, key string) {
	if err := cm.cache.Delete(ctx, key); err != nil {
		cm.logger.Warn("Cache invalidation failed", logger.Fields{"key": key, "error": err.Error()})
	}
}

func tombstoneKey(key string) string {
	return key + ":deleted"
}

func (cm *CacheManager) Tombstone(ctx context.Context, key string, expiration time.Duration) {
	if err := cm.cache.Set(ctx, tombstoneKey(key), true, expiration); err != nil {
		cm.logger.Warn("Cache tombstone write failed", logger.Fields{"key": key, "error": err.Error()})
	}
	cm.Invalidate(ctx, key)
}

func (cm *CacheManager) Tombstoned(ctx context.Context, key string) bool {
	var deleted bool
	return cm.cache.Get(ctx, tombstoneKey(key), &deleted) == nil && deleted
}

// copyData round-trips through JSON so a miss returns exactly what a later
// hit would.
func copyData(src, dest interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
