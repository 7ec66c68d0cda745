// Package query builds validated search expressions from structured
// parameters.
//
// Build turns a Params value into a single query string for the remote
// search service. Each field is validated independently; values that fail
// validation are dropped and reported through BuildResult.Warnings rather
// than failing the build. The only hard failure is ErrNoCriteria, returned
// when no field at all survives validation.
//
// Field values are deliberately not escaped: colons, quotes, brackets and
// dashes are structural syntax in the clauses this package emits (quoted
// phrases, inclusive ranges, ISO dates), and escaping them would corrupt
// the query.
package query
