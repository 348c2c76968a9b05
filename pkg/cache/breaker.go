package cache

import (
	"context"
	"errors"
	"time"

	"blogapi/pkg/circuitbreaker"
	"blogapi/pkg/logger"
)

// BreakerCache stops calling a failing cache backend for a while so
// requests go straight to the source instead of waiting on timeouts.
// Deletes always reach the backend; skipping one would leave a stale entry.
type BreakerCache struct {
	Cache
	breaker *circuitbreaker.CircuitBreaker
}

func NewBreakerCache(inner Cache, settings circuitbreaker.Settings, log logger.Logger) Cache {
	settings.IsFailure = func(err error) bool {
		return err != nil && !errors.Is(err, ErrCacheMiss)
	}
	settings.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn("Cache circuit breaker changed state", logger.Fields{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		})
	}

	return &BreakerCache{
		Cache:   inner,
		breaker: circuitbreaker.New(settings),
	}
}

func (b *BreakerCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return b.breaker.Execute(func() error {
		return b.Cache.Set(ctx, key, value, expiration)
	})
}

func (b *BreakerCache) Get(ctx context.Context, key string, dest interface{}) error {
	return b.breaker.Execute(func() error {
		return b.Cache.Get(ctx, key, dest)
	})
}

func (b *BreakerCache) State() circuitbreaker.State {
	return b.breaker.State()
}
