package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"blogapi/pkg/logger"
)

var (
	ErrCacheMiss = errors.New("cache miss")
	ErrNoValue   = errors.New("source returned no value")
)

type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// RedisCache stores JSON-encoded values under a key prefix.
type RedisCache struct {
	client *redis.Client
	logger logger.Logger
	prefix string
}

func NewRedisCache(client *redis.Client, logger logger.Logger, prefix string) Cache {
	return &RedisCache{
		client: client,
		logger: logger,
		prefix: prefix,
	}
}

func (r *RedisCache) makeKey(key string) string {
	if r.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}

	fullKey := r.makeKey(key)
	if err := r.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		r.logger.Error("Cache set failed", logger.Fields{"key": fullKey, "error": err.Error()})
		return err
	}

	r.logger.Debug("Cache set", logger.Fields{"key": fullKey, "expiration": expiration.String()})
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string, dest interface{}) error {
	fullKey := r.makeKey(key)
	data, err := r.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		r.logger.Error("Cache get failed", logger.Fields{"key": fullKey, "error": err.Error()})
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("cache unmarshal %s: %w", fullKey, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	fullKey := r.makeKey(key)
	if err := r.client.Del(ctx, fullKey).Err(); err != nil {
		r.logger.Error("Cache delete failed", logger.Fields{"key": fullKey, "error": err.Error()})
		return err
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// NopCache never stores anything. It is used when Redis is not configured.
type NopCache struct{}

func NewNopCache() Cache {
	return NopCache{}
}

func (NopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NopCache) Get(context.Context, string, interface{}) error { return ErrCacheMiss }
func (NopCache) Delete(context.Context, string) error { return nil }
func (NopCache) Ping(context.Context) error { return nil }
