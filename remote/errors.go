package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for remote call failures. Transport implementations wrap
// their failures so they match these via errors.Is.
var (
	// ErrNetwork indicates a connection-level failure before a response
	// was received.
	ErrNetwork = errors.New("remote: network failure")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("remote: request timed out")

	// ErrServer indicates a server-side (5xx) failure.
	ErrServer = errors.New("remote: server error")

	// ErrClient indicates the request itself was rejected (4xx). The
	// caller's fault; never retried and never counted against the circuit.
	ErrClient = errors.New("remote: client error")
)

// StatusError is a remote failure carrying an HTTP status code. It matches
// ErrServer or ErrClient depending on the code.
type StatusError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote: status %d: %s", e.StatusCode, e.Message)
}

// Is reports whether e matches ErrServer (5xx) or ErrClient (4xx).
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	case ErrClient:
		return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
	default:
		return false
	}
}

// IsTransient reports whether err is a breaker-relevant, retryable failure:
// network, timeout, or server-side. Client errors and everything else are
// not transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServer)
}
