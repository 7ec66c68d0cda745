package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/searchgate/cache"
	"github.com/jonwraymond/searchgate/degrade"
	"github.com/jonwraymond/searchgate/observe"
	"github.com/jonwraymond/searchgate/resilience"
)

// Sentinel errors for configuration loading.
var (
	ErrMissingBaseURL = errors.New("config: remote base URL is required")
)

// Config is the complete gateway configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Remote     RemoteConfig     `yaml:"remote"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Cache      CacheConfig      `yaml:"cache"`
	Degrade    DegradeConfig    `yaml:"degrade"`
	Observe    ObserveConfig    `yaml:"observe"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// RemoteConfig describes the remote search service.
type RemoteConfig struct {
	// BaseURL is the remote API endpoint.
	BaseURL string `yaml:"base_url"`

	// APIKey authenticates against the remote. May be a literal, a
	// ${VAR} expansion, or a secretref: reference.
	APIKey string `yaml:"api_key"`

	// Timeout bounds a single remote attempt.
	Timeout Duration `yaml:"timeout"`
}

// ResilienceConfig groups the fault-tolerance knobs.
type ResilienceConfig struct {
	Breaker  BreakerConfig   `yaml:"breaker"`
	Retry    RetryConfig     `yaml:"retry"`
	Limiter  RateLimitConfig `yaml:"rate_limit"`
	Bulkhead BulkheadConfig  `yaml:"bulkhead"`
}

// BreakerConfig configures the circuit breaker.
type BreakerConfig struct {
	FailureThreshold int      `yaml:"failure_threshold"`
	RecoveryTimeout  Duration `yaml:"recovery_timeout"`
	SuccessThreshold int      `yaml:"success_threshold"`
}

// RetryConfig configures retry with backoff.
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	BaseDelay   Duration `yaml:"base_delay"`
	MaxDelay    Duration `yaml:"max_delay"`
	Multiplier  float64  `yaml:"multiplier"`
	Jitter      bool     `yaml:"jitter"`
}

// RateLimitConfig configures client-side pacing.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	Rate    float64 `yaml:"rate"`
	Burst   int     `yaml:"burst"`
}

// BulkheadConfig caps concurrent remote calls.
type BulkheadConfig struct {
	Enabled       bool     `yaml:"enabled"`
	MaxConcurrent int      `yaml:"max_concurrent"`
	MaxWait       Duration `yaml:"max_wait"`
}

// CacheConfig configures response caching.
type CacheConfig struct {
	DefaultTTL    Duration `yaml:"default_ttl"`
	MaxTTL        Duration `yaml:"max_ttl"`
	SweepInterval Duration `yaml:"sweep_interval"`
}

// DegradeConfig configures graceful degradation.
type DegradeConfig struct {
	CachingEnabled  bool     `yaml:"caching_enabled"`
	FallbackEnabled bool     `yaml:"fallback_enabled"`
	RetryAfter      Duration `yaml:"retry_after"`
}

// ObserveConfig configures logging, tracing and metrics.
type ObserveConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"sample_pct"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Default returns the configuration used when a knob is left unset.
func Default() Config {
	return Config{
		Service: ServiceConfig{
			Name: "searchgate",
		},
		Remote: RemoteConfig{
			Timeout: Duration(30 * time.Second),
		},
		Resilience: ResilienceConfig{
			Breaker: BreakerConfig{
				FailureThreshold: 3,
				RecoveryTimeout:  Duration(30 * time.Second),
				SuccessThreshold: 2,
			},
			Retry: RetryConfig{
				MaxAttempts: 3,
				BaseDelay:   Duration(time.Second),
				MaxDelay:    Duration(60 * time.Second),
				Multiplier:  2.0,
				Jitter:      true,
			},
			Limiter: RateLimitConfig{
				Rate:  10,
				Burst: 5,
			},
			Bulkhead: BulkheadConfig{
				MaxConcurrent: 10,
			},
		},
		Cache: CacheConfig{
			DefaultTTL:    Duration(5 * time.Minute),
			MaxTTL:        Duration(time.Hour),
			SweepInterval: Duration(time.Minute),
		},
		Degrade: DegradeConfig{
			CachingEnabled:  true,
			FallbackEnabled: true,
			RetryAfter:      Duration(30 * time.Second),
		},
		Observe: ObserveConfig{
			Logging: LoggingConfig{Enabled: true, Level: "info"},
			Tracing: TracingConfig{Exporter: "none", SamplePct: 1.0},
			Metrics: MetricsConfig{Exporter: "none"},
		},
	}
}

// Validate checks the configuration for contradictions. Zero values are
// legal everywhere; downstream constructors apply their own defaults.
func (c *Config) Validate() error {
	if c.Remote.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Resilience.Retry.MaxAttempts < 0 {
		return fmt.Errorf("config: max_attempts must not be negative, got %d", c.Resilience.Retry.MaxAttempts)
	}
	if c.Resilience.Breaker.FailureThreshold < 0 {
		return fmt.Errorf("config: failure_threshold must not be negative, got %d", c.Resilience.Breaker.FailureThreshold)
	}
	if max, base := c.Resilience.Retry.MaxDelay.Std(), c.Resilience.Retry.BaseDelay.Std(); max > 0 && base > max {
		return fmt.Errorf("config: base_delay %s exceeds max_delay %s", base, max)
	}
	if max, def := c.Cache.MaxTTL.Std(), c.Cache.DefaultTTL.Std(); max > 0 && def > max {
		return fmt.Errorf("config: default_ttl %s exceeds max_ttl %s", def, max)
	}

	obs := c.Observe.ToObserve(c.Service)
	if obs.ServiceName != "" {
		if err := obs.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// BreakerConfig converts to the resilience package's configuration.
func (r ResilienceConfig) BreakerConfig() resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		FailureThreshold: r.Breaker.FailureThreshold,
		RecoveryTimeout:  r.Breaker.RecoveryTimeout.Std(),
		SuccessThreshold: r.Breaker.SuccessThreshold,
	}
}

// RetryConfig converts to the resilience package's configuration.
func (r ResilienceConfig) RetryConfig() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts: r.Retry.MaxAttempts,
		BaseDelay:   r.Retry.BaseDelay.Std(),
		MaxDelay:    r.Retry.MaxDelay.Std(),
		Multiplier:  r.Retry.Multiplier,
		Jitter:      r.Retry.Jitter,
	}
}

// LimiterConfig converts to the resilience package's configuration.
func (r ResilienceConfig) LimiterConfig() resilience.RateLimiterConfig {
	return resilience.RateLimiterConfig{
		Rate:  r.Limiter.Rate,
		Burst: r.Limiter.Burst,
	}
}

// BulkheadConfig converts to the resilience package's configuration.
func (r ResilienceConfig) BulkheadConfig() resilience.BulkheadConfig {
	return resilience.BulkheadConfig{
		MaxConcurrent: r.Bulkhead.MaxConcurrent,
		MaxWait:       r.Bulkhead.MaxWait.Std(),
	}
}

// Policy converts to the cache package's policy.
func (c CacheConfig) Policy() cache.Policy {
	return cache.Policy{
		DefaultTTL:    c.DefaultTTL.Std(),
		MaxTTL:        c.MaxTTL.Std(),
		SweepInterval: c.SweepInterval.Std(),
	}
}

// ManagerConfig converts to the degrade package's configuration.
func (d DegradeConfig) ManagerConfig() degrade.Config {
	return degrade.Config{
		CachingEnabled:  d.CachingEnabled,
		FallbackEnabled: d.FallbackEnabled,
		RetryAfter:      d.RetryAfter.Std(),
	}
}

// ToObserve converts to the observe package's configuration.
func (o ObserveConfig) ToObserve(svc ServiceConfig) observe.Config {
	return observe.Config{
		ServiceName: svc.Name,
		Version:     svc.Version,
		Logging: observe.LoggingConfig{
			Enabled: o.Logging.Enabled,
			Level:   o.Logging.Level,
		},
		Tracing: observe.TracingConfig{
			Enabled:   o.Tracing.Enabled,
			Exporter:  o.Tracing.Exporter,
			SamplePct: o.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.Metrics.Enabled,
			Exporter: o.Metrics.Exporter,
		},
	}
}
