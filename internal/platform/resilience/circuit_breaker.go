package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// TransitionFunc observes breaker state changes. It runs with the breaker
// lock released.
type TransitionFunc func(from, to CircuitState)

// CircuitBreaker guards one remote dependency. A nil *CircuitBreaker lets
// every call through.
type CircuitBreaker struct {
	cfg          CircuitBreakerConfig
	clock        clockwork.Clock
	onTransition TransitionFunc

	mu        sync.Mutex
	state     CircuitState
	failures  int       // consecutive, while closed
	openUntil time.Time // while open
	trials    int       // admitted while half-open
	trialOK   int
}

// NewCircuitBreaker returns nil when cfg is disabled.
func NewCircuitBreaker(cfg CircuitBreakerConfig, clock clockwork.Clock, onTransition TransitionFunc) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CircuitBreaker{
		cfg:          cfg.withDefaults(),
		clock:        clock,
		onTransition: onTransition,
		state:        CircuitStateClosed,
	}
}

// Execute runs fn when the breaker admits it and records the outcome. Only
// errors for which isFailure reports true count against the dependency; a
// nil isFailure counts every error.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn()
	b.record(err != nil && (isFailure == nil || isFailure(err)))
	return err
}

// Allow admits one call. Callers using Allow directly must report the result
// through Succeeded or Failed.
func (b *CircuitBreaker) Allow() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	from := b.state
	b.advance()
	var err error
	switch b.state {
	case CircuitStateOpen:
		err = ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.trials >= b.cfg.HalfOpenMaxReq {
			err = ErrCircuitOpen
		} else {
			b.trials++
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *CircuitBreaker) Succeeded() { b.record(false) }
func (b *CircuitBreaker) Failed()    { b.record(true) }

func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == CircuitStateOpen && !b.clock.Now().Before(b.openUntil) {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) record(failed bool) {
	if b == nil {
		return
	}
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		if !failed {
			b.failures = 0
		} else if b.failures++; b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case CircuitStateHalfOpen:
		if failed {
			b.trip()
			break
		}
		b.trialOK++
		if b.trialOK >= b.cfg.HalfOpenMaxReq {
			b.reset()
		}
	case CircuitStateOpen:
		if failed {
			b.openUntil = b.clock.Now().Add(b.cfg.OpenTimeout)
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// advance moves an expired open breaker to half-open. Expects b.mu held.
func (b *CircuitBreaker) advance() {
	if b.state == CircuitStateOpen && !b.clock.Now().Before(b.openUntil) {
		b.state = CircuitStateHalfOpen
		b.trials, b.trialOK = 0, 0
	}
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitStateOpen
	b.openUntil = b.clock.Now().Add(b.cfg.OpenTimeout)
	b.failures, b.trials, b.trialOK = 0, 0, 0
}

func (b *CircuitBreaker) reset() {
	b.state = CircuitStateClosed
	b.failures, b.trials, b.trialOK = 0, 0, 0
	b.openUntil = time.Time{}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.onTransition != nil {
		b.onTransition(from, to)
	}
}
