package degrade

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jonwraymond/searchgate/cache"
)

// Sentinel errors for degradation operations.
var (
	ErrCachingDisabled  = errors.New("degrade: caching is disabled")
	ErrFallbackDisabled = errors.New("degrade: fallback is disabled")
)

// DefaultRetryAfter is the retry hint attached to fallback responses
// when none is configured.
const DefaultRetryAfter = 30 * time.Second

// DegradedResponse is an explicitly marked non-authoritative response.
//
// Degraded is always true; callers must check it and must not treat the
// payload as live data.
type DegradedResponse struct {
	// Degraded marks the response as non-authoritative.
	Degraded bool `json:"degraded"`

	// Operation is the logical operation the fallback stands in for.
	Operation string `json:"operation"`

	// Reason describes why the response is degraded.
	Reason string `json:"reason"`

	// Payload is the stale or static stand-in data. May be nil.
	Payload json.RawMessage `json:"payload,omitempty"`

	// RetryAfter suggests when the caller should try again.
	RetryAfter time.Duration `json:"retry_after"`
}

// Config configures a degradation Manager.
type Config struct {
	// CachingEnabled gates GetCached and Store. When false, GetCached
	// always misses and Store is a no-op.
	CachingEnabled bool

	// FallbackEnabled gates Fallback. When false, Fallback returns
	// ErrFallbackDisabled.
	FallbackEnabled bool

	// RetryAfter is the retry hint on fallback responses.
	// Defaults to DefaultRetryAfter.
	RetryAfter time.Duration

	// Fallbacks maps operation names to static stand-in payloads.
	// Operations without an entry fall back with a nil payload.
	Fallbacks map[string]json.RawMessage
}

// Manager coordinates the degraded paths of the gateway: a TTL cache of
// recent successful responses and per-operation fallback payloads.
type Manager struct {
	store  cache.Cache
	policy cache.Policy
	config Config
}

// NewManager creates a degradation manager backed by the given cache.
// If store is nil, an in-memory cache is created from the policy.
func NewManager(store cache.Cache, policy cache.Policy, config Config) *Manager {
	if store == nil {
		store = cache.NewMemoryCache(policy)
	}
	if config.RetryAfter <= 0 {
		config.RetryAfter = DefaultRetryAfter
	}
	return &Manager{
		store:  store,
		policy: policy,
		config: config,
	}
}

// CachingEnabled reports whether the cached path is active.
func (m *Manager) CachingEnabled() bool {
	return m.config.CachingEnabled && m.policy.ShouldCache()
}

// FallbackEnabled reports whether the fallback path is active.
func (m *Manager) FallbackEnabled() bool {
	return m.config.FallbackEnabled
}

// GetCached retrieves a previously stored response. Returns (nil, false)
// on miss, on expiry, and whenever caching is disabled.
func (m *Manager) GetCached(ctx context.Context, key string) ([]byte, bool) {
	if !m.CachingEnabled() {
		return nil, false
	}
	return m.store.Get(ctx, key)
}

// Store caches a successful response under the given key. The TTL is
// resolved through the policy: zero uses the default, oversized values
// are clamped. Disabled caching makes Store a no-op.
func (m *Manager) Store(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !m.CachingEnabled() {
		return nil
	}
	if err := cache.ValidateKey(key); err != nil {
		return err
	}
	return m.store.Set(ctx, key, value, m.policy.EffectiveTTL(ttl))
}

// Fallback produces a marked degraded response for the operation. It
// never fails while fallback is enabled; with fallback disabled it
// returns ErrFallbackDisabled and the caller must propagate the
// original failure instead.
func (m *Manager) Fallback(operation, reason string) (*DegradedResponse, error) {
	if !m.config.FallbackEnabled {
		return nil, ErrFallbackDisabled
	}
	return &DegradedResponse{
		Degraded:   true,
		Operation:  operation,
		Reason:     reason,
		Payload:    m.config.Fallbacks[operation],
		RetryAfter: m.config.RetryAfter,
	}, nil
}
