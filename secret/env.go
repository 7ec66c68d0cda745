package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider serves the "env" scheme: the ref is an environment
// variable name, so "secretref:env:SEARCHGATE_API_KEY" resolves to the
// value of $SEARCHGATE_API_KEY.
type EnvProvider struct{}

// NewEnvProvider creates an environment-backed provider.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{}
}

// Scheme returns "env".
func (p *EnvProvider) Scheme() string {
	return "env"
}

// Resolve looks up the named environment variable. An unset variable is
// an error so a broken reference fails when the configuration loads,
// not on the first authenticated remote call.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	name := strings.TrimSpace(ref)
	if name == "" {
		return "", fmt.Errorf("secret: env ref is empty")
	}
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("secret: environment variable %q is not set", name)
	}
	return value, nil
}
