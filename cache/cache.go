package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength bounds cache keys. Keys from NewRequestKeyer are short
// hashes; the bound guards hand-built keys.
const MaxKeyLength = 512

var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache stores serialized search responses keyed by request.
//
// Implementations must be safe for concurrent use. Get never errors; a
// miss is (nil, false).
type Cache interface {
	// Get retrieves a cached response. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a response for ttl. A zero ttl stores nothing.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a cached response. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error
}

// ValidateKey rejects keys that are empty, oversized, or carry line
// breaks.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return ErrInvalidKey
	case len(key) > MaxKeyLength:
		return ErrKeyTooLong
	case strings.ContainsAny(key, "\n\r"):
		return ErrInvalidKey
	}
	return nil
}
