// Package resilience provides the fault-tolerance primitives the gateway
// composes around remote search calls.
//
// # Patterns
//
//   - Circuit Breaker: trips after a run of consecutive transient failures
//     and fails fast while the remote service is unhealthy, admitting one
//     serialized trial call per recovery window.
//
//   - Retry: bounded exponential backoff with jitter for transient
//     failures; terminal failures surface immediately and exhaustion is
//     reported distinctly via ExhaustedError.
//
//   - Rate Limiter: client-side token bucket pacing under the remote
//     service's published quota.
//
//   - Bulkhead: caps concurrent in-flight remote calls.
//
//   - Timeout: bounds a single attempt independently of the caller's
//     deadline.
//
// Each primitive exposes Execute(ctx, op) and is safe for concurrent use.
// The gateway package wires them together in the order cache, rate limit,
// bulkhead, circuit breaker, retry, timeout; they can equally be used on
// their own:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    Name:             "patent-search",
//	    FailureThreshold: 3,
//	    RecoveryTimeout:  30 * time.Second,
//	    SuccessThreshold: 2,
//	    IsFailure:        remote.IsTransient,
//	})
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    MaxAttempts: 3,
//	    BaseDelay:   time.Second,
//	    MaxDelay:    60 * time.Second,
//	    Multiplier:  2.0,
//	    Jitter:      true,
//	    RetryIf:     remote.IsTransient,
//	})
//
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return retry.Execute(ctx, callSearchService)
//	})
package resilience
