// Package gateway composes the resilience pipeline for remote patent
// searches: cache lookup, rate limiting, bulkhead isolation, circuit
// breaking, retry with backoff, per-attempt timeouts, and graceful
// degradation, in that order.
//
// A Gateway guards exactly one remote dependency. Callers submit
// operations through Execute (or Search for the common invoker path)
// and receive a Result that states where the payload came from and
// whether it is degraded.
package gateway
