package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/searchgate/secret"
)

// Load reads a YAML configuration file, expands environment references,
// resolves secret references, and validates the result. Unset knobs keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw YAML configuration. Environment references in the
// document are expanded strictly: a ${VAR} with no matching variable is
// an error, never an empty string.
func Parse(data []byte) (*Config, error) {
	expanded, err := secret.ExpandEnvStrict(string(data))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Remote.APIKey, err = resolveSecret(cfg.Remote.APIKey)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveSecret resolves secretref: values through the default providers.
func resolveSecret(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	resolver := secret.NewResolver(secret.NewEnvProvider())
	resolved, err := resolver.Resolve(context.Background(), value)
	if err != nil {
		return "", fmt.Errorf("config: failed to resolve api_key: %w", err)
	}
	return resolved, nil
}
