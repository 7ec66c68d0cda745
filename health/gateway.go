package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/searchgate/remote"
	"github.com/jonwraymond/searchgate/resilience"
)

// CircuitChecker reports the health of a remote dependency from its
// circuit breaker state: closed is healthy, half-open is degraded
// (probing recovery), open is unhealthy.
type CircuitChecker struct {
	breaker *resilience.CircuitBreaker
}

// NewCircuitChecker creates a health checker backed by a circuit breaker.
func NewCircuitChecker(breaker *resilience.CircuitBreaker) *CircuitChecker {
	return &CircuitChecker{breaker: breaker}
}

// Name returns the name of this checker.
func (c *CircuitChecker) Name() string {
	if name := c.breaker.Name(); name != "" {
		return "circuit:" + name
	}
	return "circuit"
}

// Check reports the current circuit state.
func (c *CircuitChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	m := c.breaker.Metrics()

	details := map[string]any{
		"state":                 m.State.String(),
		"consecutive_failures":  m.ConsecutiveFailures,
		"consecutive_successes": m.ConsecutiveSuccesses,
	}
	if !m.LastFailure.IsZero() {
		details["last_failure"] = m.LastFailure.Format(time.RFC3339)
	}
	if !m.OpenedAt.IsZero() {
		details["opened_at"] = m.OpenedAt.Format(time.RFC3339)
	}

	switch m.State {
	case resilience.StateOpen:
		return Unhealthy("circuit open, rejecting calls", ErrCheckFailed).With(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit half-open, probing recovery").With(details)
	default:
		return Healthy("circuit closed").With(details)
	}
}

// RemoteCheckerConfig configures the remote dependency checker.
type RemoteCheckerConfig struct {
	// Name identifies the remote dependency.
	// Default: "remote"
	Name string

	// ProbeQuery is the query sent to the remote as a probe. It should
	// be cheap on the remote side.
	// Default: "(*)"
	ProbeQuery string

	// Timeout bounds a single probe.
	// Default: 5 seconds
	Timeout time.Duration

	// DegradedAfter marks the check degraded when a probe takes longer
	// than this but still succeeds.
	// Default: 1 second
	DegradedAfter time.Duration
}

// RemoteChecker probes the remote search service with a minimal request.
type RemoteChecker struct {
	invoker remote.Invoker
	config  RemoteCheckerConfig
}

// NewRemoteChecker creates a health checker that probes the remote
// service through the given invoker.
func NewRemoteChecker(invoker remote.Invoker, config RemoteCheckerConfig) *RemoteChecker {
	if config.Name == "" {
		config.Name = "remote"
	}
	if config.ProbeQuery == "" {
		config.ProbeQuery = "(*)"
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	if config.DegradedAfter <= 0 {
		config.DegradedAfter = time.Second
	}

	return &RemoteChecker{invoker: invoker, config: config}
}

// Name returns the name of this checker.
func (r *RemoteChecker) Name() string {
	return r.config.Name
}

// Check sends a one-row probe request and classifies the outcome.
func (r *RemoteChecker) Check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := r.invoker.Invoke(ctx, remote.Request{Query: r.config.ProbeQuery, Rows: 1})
	elapsed := time.Since(start)

	details := map[string]any{
		"probe_duration": elapsed.String(),
	}

	if err != nil {
		if remote.IsTransient(err) {
			return Unhealthy(fmt.Sprintf("probe failed: %v", err), err).With(details)
		}
		// A client rejection still proves the remote is up and parsing
		// requests.
		return Degraded(fmt.Sprintf("probe rejected: %v", err)).With(details)
	}

	details["total"] = resp.Total

	if elapsed > r.config.DegradedAfter {
		return Degraded(fmt.Sprintf("probe slow: %s", elapsed)).With(details)
	}
	return Healthy("remote reachable").With(details)
}

// Ping checks if the remote is reachable.
func (r *RemoteChecker) Ping(ctx context.Context) error {
	result := r.Check(ctx)
	if result.Status == StatusUnhealthy {
		return result.Err
	}
	return nil
}
