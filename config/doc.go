// Package config loads and validates gateway configuration.
//
// Configuration is declared in YAML. Values may reference environment
// variables with ${VAR} (missing variables fail the load) and secrets
// with secretref: references resolved through the secret package.
//
// # Basic Usage
//
//	cfg, err := config.Load("searchgate.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	breaker := resilience.NewCircuitBreaker(cfg.Resilience.BreakerConfig())
//	retry := resilience.NewRetry(cfg.Resilience.RetryConfig())
//
// Apart from the remote base URL, every knob has a working default;
// unset values fall back to config.Default().
package config
