package secret

import "context"

// Provider resolves credential references for one scheme. The scheme is
// named in the reference itself: the "env" in
// "secretref:env:SEARCHGATE_API_KEY".
//
// Implementations must be safe for concurrent use and must never log
// resolved values.
type Provider interface {
	// Scheme returns the reference scheme this provider serves.
	Scheme() string

	// Resolve returns the credential named by ref.
	Resolve(ctx context.Context, ref string) (string, error)
}
