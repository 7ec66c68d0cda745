package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records gateway call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records a remote call with duration and error status.
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)

	// RecordCacheHit records a fresh cache hit that short-circuited the call.
	RecordCacheHit(ctx context.Context, meta CallMeta)

	// RecordFallback records a degraded fallback response being served.
	RecordFallback(ctx context.Context, meta CallMeta, reason string)

	// RecordStateChange records a circuit breaker state transition.
	RecordStateChange(ctx context.Context, dependency, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
	cacheHits    metric.Int64Counter
	fallbacks    metric.Int64Counter
	transitions  metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"gateway.call.total",
		metric.WithDescription("Total number of remote calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"gateway.call.errors",
		metric.WithDescription("Total number of failed remote calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"gateway.call.duration_ms",
		metric.WithDescription("Remote call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"gateway.cache.hits",
		metric.WithDescription("Calls served from the response cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	fallbacks, err := meter.Int64Counter(
		"gateway.fallback.total",
		metric.WithDescription("Degraded fallback responses served"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"gateway.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
		cacheHits:    cacheHits,
		fallbacks:    fallbacks,
		transitions:  transitions,
	}, nil
}

func callAttributes(meta CallMeta) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		attribute.String("call.operation", meta.Operation),
	}
	if meta.Dependency != "" {
		attrs = append(attrs, attribute.String("call.dependency", meta.Dependency))
	}
	return metric.WithAttributes(attrs...)
}

// RecordCall records metrics for a remote call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	opt := callAttributes(meta)

	// Always increment total counter
	m.totalCount.Add(ctx, 1, opt)

	// Increment error counter on failure
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	// Record duration in milliseconds
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordCacheHit records a cache hit.
func (m *metricsImpl) RecordCacheHit(ctx context.Context, meta CallMeta) {
	m.cacheHits.Add(ctx, 1, callAttributes(meta))
}

// RecordFallback records a fallback response.
func (m *metricsImpl) RecordFallback(ctx context.Context, meta CallMeta, reason string) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("call.operation", meta.Operation),
		attribute.String("fallback.reason", reason),
	))
}

// RecordStateChange records a breaker transition.
func (m *metricsImpl) RecordStateChange(ctx context.Context, dependency, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("call.dependency", dependency),
		attribute.String("breaker.from", from),
		attribute.String("breaker.to", to),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *noopMetrics) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
}
func (m *noopMetrics) RecordCacheHit(ctx context.Context, meta CallMeta)                {}
func (m *noopMetrics) RecordFallback(ctx context.Context, meta CallMeta, reason string) {}
func (m *noopMetrics) RecordStateChange(ctx context.Context, dependency, from, to string) {
}
