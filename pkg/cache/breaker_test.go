package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blogapi/pkg/circuitbreaker"
	"blogapi/pkg/logger"
)

type downCache struct {
	calls int
}

func (d *downCache) Set(context.Context, string, interface{}, time.Duration) error {
	d.calls++
	return errors.New("connection refused")
}

func (d *downCache) Get(context.Context, string, interface{}) error {
	d.calls++
	return errors.New("connection refused")
}

func (d *downCache) Delete(context.Context, string) error {
	d.calls++
	return nil
}

func (d *downCache) Ping(context.Context) error { return nil }

func TestBreakerCacheStopsCallingFailingBackend(t *testing.T) {
	ctx := context.Background()
	backend := &downCache{}
	c := NewBreakerCache(backend, circuitbreaker.Settings{Name: "redis", FailureThreshold: 2, OpenTimeout: time.Hour}, logger.Nop())

	var dest item
	assert.Error(t, c.Get(ctx, "a", &dest))
	assert.Error(t, c.Set(ctx, "a", item{}, time.Minute))
	assert.Equal(t, 2, backend.calls)

	assert.ErrorIs(t, c.Get(ctx, "a", &dest), circuitbreaker.ErrOpen)
	assert.Equal(t, 2, backend.calls)

	assert.NoError(t, c.Delete(ctx, "a"))
	assert.Equal(t, 3, backend.calls, "deletes bypass the breaker")
}

func TestBreakerCacheIgnoresMisses(t *testing.T) {
	ctx := context.Background()
	c := NewBreakerCache(newMapCache(), circuitbreaker.Settings{FailureThreshold: 1}, logger.Nop())

	var dest item
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, c.Get(ctx, "missing", &dest), ErrCacheMiss)
	}
	assert.Equal(t, circuitbreaker.StateClosed, c.(*BreakerCache).State())
}

func TestReadThroughFallsBackWhenBreakerOpen(t *testing.T) {
	c := NewBreakerCache(&downCache{}, circuitbreaker.Settings{FailureThreshold: 1, OpenTimeout: time.Hour}, logger.Nop())
	cm := NewCacheManager(c, logger.Nop())

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return &item{Name: "tech"}, nil
	}

	for i := 0; i < 3; i++ {
		var dest item
		assert.NoError(t, cm.ReadThrough(context.Background(), "k", &dest, fetch, time.Minute))
		assert.Equal(t, "tech", dest.Name)
	}
	assert.Equal(t, 3, calls)
}
