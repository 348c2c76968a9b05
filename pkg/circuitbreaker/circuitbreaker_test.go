package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errBoom = errors.New("boom")

func newTestBreaker(threshold uint32) (*CircuitBreaker, *time.Time, *[]string) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var transitions []string

	cb := New(Settings{
		Name:             "test",
		FailureThreshold: threshold,
		OpenTimeout:      time.Minute,
		OnStateChange: func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	cb.now = func() time.Time { return now }
	return cb, &now, &transitions
}

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	cb, _, _ := newTestBreaker(3)

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	}
	assert.NoError(t, cb.Execute(func() error { return nil }), "success resets the streak")

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errBoom })
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestHalfOpenProbe(t *testing.T) {
	cb, now, transitions := newTestBreaker(1)

	_ = cb.Execute(func() error { return errBoom })
	assert.Equal(t, StateOpen, cb.State())

	*now = now.Add(time.Minute)
	assert.Equal(t, StateHalfOpen, cb.State())

	assert.ErrorIs(t, cb.Execute(func() error { return errBoom }), errBoom)
	assert.Equal(t, StateOpen, cb.State(), "a failed trial call reopens")

	*now = now.Add(time.Minute)
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())

	assert.Equal(t, []string{
		"closed->open",
		"open->half-open",
		"half-open->open",
		"open->half-open",
		"half-open->closed",
	}, *transitions)
}

func TestIgnoredErrorsDoNotTrip(t *testing.T) {
	benign := errors.New("miss")
	cb := New(Settings{
		FailureThreshold: 1,
		IsFailure:        func(err error) bool { return err != nil && !errors.Is(err, benign) },
	})

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return benign }), benign)
	}
	assert.Equal(t, StateClosed, cb.State())
}
