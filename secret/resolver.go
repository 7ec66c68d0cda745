package secret

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownScheme is returned when a reference names a scheme no
// registered provider serves.
var ErrUnknownScheme = errors.New("secret: reference names an unknown provider scheme")

// refPattern matches one secretref occurrence anywhere in a value.
// Scheme and ref run until the next colon/whitespace and whitespace
// respectively, which keeps refs like "16/123" intact.
var refPattern = regexp.MustCompile(`secretref:([^:\s]+):(\S+)`)

// Resolver turns configuration values into credentials. A value passes
// through strict environment expansion first, then every
// "secretref:<scheme>:<ref>" occurrence is replaced by the credential
// the named provider returns. Resolution is strict throughout: a
// reference that yields an empty string is an error, never a blank
// API key.
type Resolver struct {
	providers map[string]Provider
}

// NewResolver creates a resolver backed by the given providers. Nil
// providers are skipped; a later provider with the same scheme wins.
func NewResolver(providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Scheme()] = p
		}
	}
	return r
}

// Resolve expands environment references in value and resolves every
// secretref it contains. A value with no references passes through
// unchanged.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}

	matches := refPattern.FindAllString(expanded, -1)
	if len(matches) == 0 {
		return expanded, nil
	}

	out := expanded
	for _, match := range matches {
		scheme, ref, ok := ParseRef(match)
		if !ok {
			continue
		}
		credential, err := r.lookup(ctx, scheme, ref)
		if err != nil {
			return "", err
		}
		out = strings.Replace(out, match, credential, 1)
	}
	return out, nil
}

// ParseRef splits a reference of the form "secretref:<scheme>:<ref>".
func ParseRef(value string) (scheme, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, "secretref:")
	if !found {
		return "", "", false
	}
	scheme, ref, found = strings.Cut(rest, ":")
	if !found || scheme == "" || ref == "" {
		return "", "", false
	}
	return scheme, ref, true
}

func (r *Resolver) lookup(ctx context.Context, scheme, ref string) (string, error) {
	p, ok := r.providers[scheme]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
	credential, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if credential == "" {
		return "", fmt.Errorf("secret: %s ref %q resolved to an empty value", scheme, ref)
	}
	return credential, nil
}
