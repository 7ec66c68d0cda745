package query

import "errors"

// ErrNoCriteria is returned by Build when no parameter survives validation.
// Unconstrained queries against the remote service are disallowed.
var ErrNoCriteria = errors.New("query: no valid search criteria provided")
