package gateway

import (
	"time"

	"github.com/jonwraymond/searchgate/cache"
	"github.com/jonwraymond/searchgate/degrade"
	"github.com/jonwraymond/searchgate/observe"
	"github.com/jonwraymond/searchgate/resilience"
)

// Option configures a Gateway.
type Option func(*Gateway)

// WithCircuitBreaker sets the circuit breaker guarding the remote
// dependency. Without it, a breaker with default thresholds and the
// Transient failure classifier is used.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(g *Gateway) {
		g.breaker = cb
	}
}

// WithRetry sets the retry policy for remote attempts.
func WithRetry(r *resilience.Retry) Option {
	return func(g *Gateway) {
		g.retry = r
	}
}

// WithRateLimiter paces outbound calls as the outermost stage.
func WithRateLimiter(rl *resilience.RateLimiter) Option {
	return func(g *Gateway) {
		g.limiter = rl
	}
}

// WithBulkhead caps concurrent in-flight remote calls.
func WithBulkhead(b *resilience.Bulkhead) Option {
	return func(g *Gateway) {
		g.bulkhead = b
	}
}

// WithTimeout bounds each individual remote attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = resilience.NewTimeout(resilience.TimeoutConfig{Timeout: timeout})
	}
}

// WithDegradation sets the degradation manager providing the cached and
// fallback paths. Without it, both paths are disabled.
func WithDegradation(m *degrade.Manager) Option {
	return func(g *Gateway) {
		g.degrade = m
	}
}

// WithKeyer sets the cache key derivation used by Search.
func WithKeyer(k cache.Keyer) Option {
	return func(g *Gateway) {
		g.keyer = k
	}
}

// WithLogger sets the structured logger.
func WithLogger(l observe.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithTracer traces each remote call path as a client span. Cache hits
// are not traced.
func WithTracer(t observe.Tracer) Option {
	return func(g *Gateway) {
		g.tracer = t
	}
}

// WithOperationTTL declares the cache TTL for one operation. Operations
// without a declared TTL use the degradation policy's default.
func WithOperationTTL(operation string, ttl time.Duration) Option {
	return func(g *Gateway) {
		g.ttls[operation] = ttl
	}
}
