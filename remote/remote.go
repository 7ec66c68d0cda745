package remote

import (
	"context"
	"encoding/json"
)

// Request is a single search request against the remote service.
type Request struct {
	// Query is the validated query expression, as produced by query.Build.
	Query string `json:"query"`

	// Start is the zero-based offset of the first result to return.
	Start int `json:"start"`

	// Rows is the maximum number of results to return.
	Rows int `json:"rows"`
}

// Response is a page of search results.
//
// Documents are kept opaque; the gateway caches and returns them without
// interpreting their shape.
type Response struct {
	// Total is the number of matching documents on the remote side.
	Total int `json:"total"`

	// Docs holds the raw result documents for this page.
	Docs []json.RawMessage `json:"docs"`
}

// Invoker executes one search request against the remote service.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: Invoke must honor cancellation and deadlines.
//   - Errors: failures must be classifiable by this package's taxonomy, so
//     implementations wrap transport failures in ErrNetwork/ErrTimeout and
//     HTTP status failures in *StatusError.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Response, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, req Request) (*Response, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
