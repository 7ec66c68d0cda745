// Package health reports whether the gateway's dependencies can serve
// search traffic.
//
// Two checkers cover the gateway: CircuitChecker grades a remote
// dependency from its circuit breaker state (closed is healthy,
// half-open degraded, open unhealthy), and RemoteChecker sends a
// one-row probe query to the search service and classifies the
// outcome. Ad-hoc checks wrap a function with Named.
//
//	circuit := health.NewCircuitChecker(breaker)
//	probe := health.NewRemoteChecker(invoker, health.RemoteCheckerConfig{})
//
// An Aggregator runs every registered check under one deadline and
// folds the results into a Report whose status is the worst of its
// parts:
//
//	agg := health.NewAggregator(health.AggregatorConfig{})
//	agg.Register(circuit)
//	agg.Register(probe)
//
//	report := agg.Run(ctx)
//	if report.Status == health.StatusUnhealthy {
//	    // stop advertising readiness
//	}
//
// RegisterHandlers mounts the standard probe endpoints:
//
//	/healthz  liveness, process is up
//	/readyz   plain-text verdict from a full run
//	/health   full report as JSON
//
// Degraded answers 200 on purpose: a gateway serving from cache or
// fallback is still serving.
package health
