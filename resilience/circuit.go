package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all requests.
	StateOpen
	// StateHalfOpen means the circuit is testing if the dependency recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
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

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the remote dependency this breaker guards.
	Name string

	// FailureThreshold is the number of consecutive relevant failures in
	// the closed state before opening the circuit.
	// Default: 3
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before a single
	// trial call is admitted.
	// Default: 30 seconds
	RecoveryTimeout time.Duration

	// SuccessThreshold is the number of consecutive successes in the
	// half-open state needed to close the circuit.
	// Default: 2
	SuccessThreshold int

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure determines if an error counts toward the failure
	// threshold. Caller errors (bad requests) should return false here so
	// they never trip the circuit.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool
}

// CircuitBreaker gates calls to one remote dependency.
//
// Counter mutation and state transitions happen under a single mutex; the
// guarded call itself runs outside it, so a slow remote call never blocks
// other callers' admission checks.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	lastFailure   time.Time
	openedAt      time.Time
	trialInFlight bool
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 30 * time.Second
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 2
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker.
//
// While open, Execute returns ErrCircuitOpen without invoking the operation.
// Otherwise the operation's own outcome is recorded and propagated. A call
// that fails with the caller's own context error is excluded from the
// breaker's accounting entirely, so cancellations never bias the threshold.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	trial, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	opErr := op(ctx)

	cancelled := ctx.Err() != nil &&
		(errors.Is(opErr, context.Canceled) || errors.Is(opErr, context.DeadlineExceeded))
	cb.afterRequest(trial, cancelled, opErr)
	return opErr
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Name returns the name of the guarded dependency.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Reset resets the circuit breaker to closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.trialInFlight = false

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

// beforeRequest decides admission. It returns trial=true when the caller
// holds the single half-open trial slot.
func (cb *CircuitBreaker) beforeRequest() (trial bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		return false, ErrCircuitOpen
	case StateHalfOpen:
		// At most one trial call in flight at a time.
		if cb.trialInFlight {
			return false, ErrCircuitOpen
		}
		cb.trialInFlight = true
		return true, nil
	default:
		return false, nil
	}
}

func (cb *CircuitBreaker) afterRequest(trial, cancelled bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if trial {
		cb.trialInFlight = false
	}
	if cancelled {
		// Neither success nor failure.
		return
	}

	isFailure := err != nil && cb.config.IsFailure(err)
	oldState := cb.state

	switch cb.state {
	case StateClosed:
		if isFailure {
			cb.failures++
			cb.lastFailure = time.Now()
			if cb.failures >= cb.config.FailureThreshold {
				cb.openLocked()
			}
		} else {
			cb.failures = 0
		}

	case StateHalfOpen:
		if isFailure {
			// One failed trial is enough to re-trip; the recovery
			// window restarts from now.
			cb.lastFailure = time.Now()
			cb.openLocked()
		} else {
			cb.successes++
			if cb.successes >= cb.config.SuccessThreshold {
				cb.state = StateClosed
				cb.failures = 0
				cb.successes = 0
			}
		}

	case StateOpen:
		// Late completion of a call admitted before the circuit opened.
		// The transition already happened; don't count it again.
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

// currentStateLocked applies the time-based OPEN -> HALF_OPEN transition.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.RecoveryTimeout {
		cb.state = StateHalfOpen
		cb.successes = 0
		cb.trialInFlight = false
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

func (cb *CircuitBreaker) openLocked() {
	cb.state = StateOpen
	cb.openedAt = time.Now()
	cb.successes = 0
}

// Metrics returns current circuit breaker counters.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:                cb.currentStateLocked(),
		ConsecutiveFailures:  cb.failures,
		ConsecutiveSuccesses: cb.successes,
		LastFailure:          cb.lastFailure,
		OpenedAt:             cb.openedAt,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State                State
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	LastFailure          time.Time
	OpenedAt             time.Time
}
