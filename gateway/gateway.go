package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/searchgate/cache"
	"github.com/jonwraymond/searchgate/degrade"
	"github.com/jonwraymond/searchgate/observe"
	"github.com/jonwraymond/searchgate/remote"
	"github.com/jonwraymond/searchgate/resilience"
)

// Sentinel errors for gateway operations.
var (
	ErrNilInvoker = errors.New("gateway: invoker is nil")
	ErrNilOp      = errors.New("gateway: operation is nil")
)

// Source identifies where a Result's payload came from.
type Source string

const (
	// SourceRemote marks a live response from the remote dependency.
	SourceRemote Source = "remote"

	// SourceCache marks a fresh cached response.
	SourceCache Source = "cache"

	// SourceFallback marks a degraded stand-in response.
	SourceFallback Source = "fallback"
)

// Result is the outcome of a gateway execution.
//
// Degraded results are explicitly marked; callers must check Degraded
// before treating the payload as authoritative.
type Result struct {
	// Payload is the serialized search response.
	Payload json.RawMessage

	// Source is where the payload came from.
	Source Source

	// Degraded is true when the payload is a fallback stand-in.
	Degraded bool

	// Reason describes why the result is degraded. Empty otherwise.
	Reason string

	// RetryAfter suggests when to retry a degraded operation.
	// Zero otherwise.
	RetryAfter time.Duration
}

// Operation is a single remote call guarded by the gateway.
type Operation func(ctx context.Context) (*remote.Response, error)

// Gateway routes operations against one remote dependency through the
// resilience pipeline. All stages except the circuit breaker are
// optional.
//
// Safe for concurrent use. Concurrent executions for the same cache key
// are coalesced into a single remote call.
type Gateway struct {
	invoker remote.Invoker

	breaker  *resilience.CircuitBreaker
	retry    *resilience.Retry
	limiter  *resilience.RateLimiter
	bulkhead *resilience.Bulkhead
	timeout  *resilience.Timeout

	degrade *degrade.Manager
	keyer   cache.Keyer

	logger  observe.Logger
	metrics observe.Metrics
	tracer  observe.Tracer

	ttls map[string]time.Duration

	group singleflight.Group
}

// New creates a gateway for the given remote invoker.
//
// Without options, the gateway runs breaker(retry(op)) with default
// thresholds, no caching, and no fallback. Transient remote errors
// (network, timeout, server) drive both the breaker and the retry
// classifier; client errors surface immediately and never trip the
// breaker.
func New(invoker remote.Invoker, opts ...Option) (*Gateway, error) {
	if invoker == nil {
		return nil, ErrNilInvoker
	}

	g := &Gateway{
		invoker: invoker,
		keyer:   cache.NewRequestKeyer(),
		logger:  observe.NopLogger(),
		metrics: observe.NopMetrics(),
		ttls:    make(map[string]time.Duration),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.breaker == nil {
		g.breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			IsFailure: Transient,
			OnStateChange: func(from, to resilience.State) {
				g.metrics.RecordStateChange(context.Background(), "remote", from.String(), to.String())
			},
		})
	}
	if g.retry == nil {
		g.retry = resilience.NewRetry(resilience.RetryConfig{
			Jitter:  true,
			RetryIf: Transient,
		})
	}
	if g.degrade == nil {
		g.degrade = degrade.NewManager(nil, cache.NoCachePolicy(), degrade.Config{})
	}

	return g, nil
}

// Transient reports whether an error should count against the circuit
// breaker and trigger a retry. Per-attempt timeouts from the pipeline
// count the same as remote timeouts.
func Transient(err error) bool {
	return remote.IsTransient(err) || errors.Is(err, resilience.ErrTimeout)
}

// Search runs a remote search through the pipeline, deriving the cache
// key from the operation name and request.
func (g *Gateway) Search(ctx context.Context, operation string, req remote.Request) (*Result, error) {
	key := g.keyer.Key(operation, req)
	return g.Execute(ctx, key, operation, func(ctx context.Context) (*remote.Response, error) {
		return g.invoker.Invoke(ctx, req)
	})
}

// Execute runs an operation through the pipeline.
//
// A fresh cache entry for cacheKey short-circuits everything: no remote
// call, no breaker interaction. Otherwise the operation runs inside
// limiter → bulkhead → breaker → retry → timeout, concurrent duplicates
// for the same key coalesced. Success stores the serialized response
// with the operation's TTL. A fast-fail (circuit open) or exhausted
// retries convert to a marked fallback result when fallback is enabled;
// every other error propagates unchanged.
func (g *Gateway) Execute(ctx context.Context, cacheKey, operation string, op Operation) (*Result, error) {
	if op == nil {
		return nil, ErrNilOp
	}

	meta := observe.CallMeta{Operation: operation, Dependency: g.breaker.Name()}
	log := g.logger.WithCall(meta)

	if payload, ok := g.degrade.GetCached(ctx, cacheKey); ok {
		g.metrics.RecordCacheHit(ctx, meta)
		log.Debug(ctx, "cache hit", observe.Field{Key: "cache.key", Value: cacheKey})
		return &Result{Payload: payload, Source: SourceCache}, nil
	}

	callCtx := ctx
	var span trace.Span
	if g.tracer != nil {
		callCtx, span = g.tracer.StartSpan(ctx, meta)
	}

	start := time.Now()
	payload, err := g.call(callCtx, cacheKey, operation, op)
	g.metrics.RecordCall(ctx, meta, time.Since(start), err)

	if g.tracer != nil {
		g.tracer.EndSpan(span, err)
	}

	if err == nil {
		return &Result{Payload: payload, Source: SourceRemote}, nil
	}

	reason, degradable := degradeReason(err)
	if degradable && g.degrade.FallbackEnabled() {
		fb, fbErr := g.degrade.Fallback(operation, reason)
		if fbErr == nil {
			g.metrics.RecordFallback(ctx, meta, reason)
			log.Warn(ctx, "serving fallback response",
				observe.Field{Key: "reason", Value: reason},
				observe.Field{Key: "error", Value: err.Error()},
			)
			return &Result{
				Payload:    fb.Payload,
				Source:     SourceFallback,
				Degraded:   true,
				Reason:     fb.Reason,
				RetryAfter: fb.RetryAfter,
			}, nil
		}
	}

	log.Error(ctx, "operation failed", observe.Field{Key: "error", Value: err.Error()})
	return nil, err
}

// call runs the guarded pipeline, coalescing concurrent executions for
// the same cache key into one remote call.
func (g *Gateway) call(ctx context.Context, cacheKey, operation string, op Operation) (json.RawMessage, error) {
	v, err, _ := g.group.Do(cacheKey, func() (any, error) {
		var resp *remote.Response

		execute := func(ctx context.Context) error {
			r, opErr := op(ctx)
			if opErr != nil {
				return opErr
			}
			resp = r
			return nil
		}

		if g.timeout != nil {
			inner := execute
			execute = func(ctx context.Context) error {
				return g.timeout.Execute(ctx, inner)
			}
		}

		guarded := func(ctx context.Context) error {
			return g.breaker.Execute(ctx, func(ctx context.Context) error {
				return g.retry.Execute(ctx, execute)
			})
		}

		if g.bulkhead != nil {
			inner := guarded
			guarded = func(ctx context.Context) error {
				return g.bulkhead.Execute(ctx, inner)
			}
		}
		if g.limiter != nil {
			inner := guarded
			guarded = func(ctx context.Context) error {
				return g.limiter.Execute(ctx, inner)
			}
		}

		if execErr := guarded(ctx); execErr != nil {
			return nil, execErr
		}

		payload, marshalErr := json.Marshal(resp)
		if marshalErr != nil {
			return nil, fmt.Errorf("gateway: failed to encode response: %w", marshalErr)
		}

		if storeErr := g.degrade.Store(ctx, cacheKey, payload, g.ttls[operation]); storeErr != nil {
			// Caching is best-effort; the live response still stands.
			g.logger.Warn(ctx, "failed to cache response",
				observe.Field{Key: "cache.key", Value: cacheKey},
				observe.Field{Key: "error", Value: storeErr.Error()},
			)
		}

		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// BreakerState exposes the current circuit breaker state.
func (g *Gateway) BreakerState() resilience.State {
	return g.breaker.State()
}

// degradeReason maps a pipeline failure to a fallback reason. Only
// fast-fails and exhausted retries are eligible for degradation; caller
// errors and cancellations always propagate.
func degradeReason(err error) (string, bool) {
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return "circuit breaker open", true
	case errors.Is(err, resilience.ErrRetriesExhausted):
		return "retries exhausted", true
	default:
		return "", false
	}
}
