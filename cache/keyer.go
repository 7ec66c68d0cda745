package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/jonwraymond/searchgate/remote"
)

// Keyer generates deterministic cache keys from search requests.
//
// Contract:
// - Determinism: the same operation and request must produce the same key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from an operation name and request.
	Key(operation string, req remote.Request) string
}

// RequestKeyer generates SHA-256 based cache keys from the request's
// query string and pagination window.
type RequestKeyer struct{}

// NewRequestKeyer creates a new request keyer.
func NewRequestKeyer() *RequestKeyer {
	return &RequestKeyer{}
}

// Key generates a deterministic cache key.
// Format: search:<operation>:<hash>
// where hash is the first 16 hex characters of SHA-256(JSON(request)).
// Struct field order is fixed, so the JSON encoding is deterministic.
func (k *RequestKeyer) Key(operation string, req remote.Request) string {
	payload, err := json.Marshal(req)
	if err != nil {
		// remote.Request contains only strings and ints; Marshal cannot
		// fail, but fall back to the raw query rather than panicking.
		payload = []byte(req.Query)
	}

	hash := sha256.Sum256(payload)
	return fmt.Sprintf("search:%s:%s", operation, hex.EncodeToString(hash[:8]))
}

// Ensure RequestKeyer implements Keyer
var _ Keyer = (*RequestKeyer)(nil)
