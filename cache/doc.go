// Package cache provides TTL caching for search responses.
//
// It provides a Cache interface with an in-memory implementation,
// SHA-256-based key derivation from search requests, and TTL policies.
package cache
