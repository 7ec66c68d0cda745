// Package degrade provides graceful degradation for remote search failures.
//
// A Manager serves cached responses when the remote dependency is
// unavailable and, as a last resort, produces explicitly marked fallback
// responses so callers can never mistake degraded data for authoritative
// results.
package degrade
