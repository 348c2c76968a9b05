package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrOpen            = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("circuit breaker is half-open and at capacity")
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type Settings struct {
	Name string
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before letting trial calls through.
	OpenTimeout time.Duration
	// HalfOpenRequests trial calls must succeed in a row to close again.
	HalfOpenRequests uint32
	// IsFailure decides which errors count against the breaker. Defaults to
	// err != nil.
	IsFailure     func(err error) bool
	OnStateChange func(name string, from, to State)
}

// CircuitBreaker short-circuits calls to a dependency after it keeps
// failing, then lets a few trial calls through once OpenTimeout has passed.
type CircuitBreaker struct {
	settings Settings
	now      func() time.Time

	mutex               sync.Mutex
	state               State
	consecutiveFailures uint32
	halfOpenInFlight    uint32
	halfOpenSuccesses   uint32
	openedAt            time.Time
}

func New(settings Settings) *CircuitBreaker {
	if settings.FailureThreshold == 0 {
		settings.FailureThreshold = 5
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = 30 * time.Second
	}
	if settings.HalfOpenRequests == 0 {
		settings.HalfOpenRequests = 1
	}
	if settings.IsFailure == nil {
		settings.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		settings: settings,
		now:      time.Now,
	}
}

// Execute runs fn unless the breaker is open. Errors from fn are returned
// unchanged.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.before(); err != nil {
		return err
	}

	err := fn()
	cb.after(cb.settings.IsFailure(err))
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.currentState() {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if cb.halfOpenInFlight >= cb.settings.HalfOpenRequests {
			return ErrTooManyRequests
		}
		cb.halfOpenInFlight++
	}
	return nil
}

func (cb *CircuitBreaker) after(failed bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	switch cb.currentState() {
	case StateClosed:
		if !failed {
			cb.consecutiveFailures = 0
			return
		}
		cb.consecutiveFailures++
		if cb.consecutiveFailures >= cb.settings.FailureThreshold {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		if failed {
			cb.setState(StateOpen)
			return
		}
		cb.halfOpenSuccesses++
		if cb.halfOpenSuccesses >= cb.settings.HalfOpenRequests {
			cb.setState(StateClosed)
		}
	}
}

// currentState moves an expired open breaker to half-open. Callers hold
// the mutex.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && cb.now().Sub(cb.openedAt) >= cb.settings.OpenTimeout {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	cb.consecutiveFailures = 0
	cb.halfOpenInFlight = 0
	cb.halfOpenSuccesses = 0
	if state == StateOpen {
		cb.openedAt = cb.now()
	}

	if cb.settings.OnStateChange != nil {
		cb.settings.OnStateChange(cb.settings.Name, prev, state)
	}
}

func (cb *CircuitBreaker) Name() string {
	return cb.settings.Name
}

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return cb.currentState()
}
