package health

import (
	"context"
	"time"
)

// Status grades a dependency. The values are ordered from best to
// worst so reports can take the worst status across checks.
type Status int

const (
	// StatusHealthy means the dependency is fully serving.
	StatusHealthy Status = iota
	// StatusDegraded means the dependency serves with reduced quality,
	// e.g. a half-open circuit or a slow probe.
	StatusDegraded
	// StatusUnhealthy means the dependency is down or rejecting calls.
	StatusUnhealthy
)

var statusNames = [...]string{"healthy", "degraded", "unhealthy"}

// String returns the lowercase status name.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// worse returns the worse of two statuses.
func worse(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// Result is the outcome of checking one dependency.
type Result struct {
	// Status grades the dependency.
	Status Status

	// Message is a short human-readable summary.
	Message string

	// Details carries dependency-specific metadata, e.g. the circuit
	// state or the probe latency.
	Details map[string]any

	// Elapsed is how long the check took.
	Elapsed time.Duration

	// CheckedAt is when the check ran.
	CheckedAt time.Time

	// Err is the failure cause for unhealthy results.
	Err error
}

// Healthy builds a healthy result.
func Healthy(message string) Result {
	return Result{Status: StatusHealthy, Message: message, CheckedAt: time.Now()}
}

// Degraded builds a degraded result.
func Degraded(message string) Result {
	return Result{Status: StatusDegraded, Message: message, CheckedAt: time.Now()}
}

// Unhealthy builds an unhealthy result carrying its cause.
func Unhealthy(message string, err error) Result {
	return Result{Status: StatusUnhealthy, Message: message, Err: err, CheckedAt: time.Now()}
}

// With attaches details to a result.
func (r Result) With(details map[string]any) Result {
	r.Details = details
	return r
}

// Checker checks one dependency of the gateway.
type Checker interface {
	// Name identifies the dependency, e.g. "circuit:patentsview".
	Name() string

	// Check runs one health check. Implementations should honor ctx
	// cancellation; the aggregator bounds the overall run.
	Check(ctx context.Context) Result
}

// CheckFunc is a bare check function.
type CheckFunc func(ctx context.Context) Result

// Named adapts fn into a Checker with the given name.
func Named(name string, fn CheckFunc) Checker {
	return &namedChecker{name: name, fn: fn}
}

type namedChecker struct {
	name string
	fn   CheckFunc
}

func (c *namedChecker) Name() string { return c.name }

func (c *namedChecker) Check(ctx context.Context) Result { return c.fn(ctx) }

// Pinger is implemented by checkers that can answer a cheap
// reachability question, e.g. RemoteChecker.
type Pinger interface {
	Checker

	// Ping returns nil when the dependency is reachable.
	Ping(ctx context.Context) error
}
