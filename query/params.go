package query

// Params holds the structured search attributes for one request.
//
// Every field is optional, but at least one must be non-empty for Build to
// succeed. String fields are trimmed before validation; a value that is
// empty after trimming is treated as absent. Granted is a tri-state flag:
// nil means "not specified" and is omitted from the query entirely, which
// is distinct from an explicit false.
//
// Params is constructed per request and never mutated by this package.
type Params struct {
	// Criteria is free-text search criteria, passed through as its own
	// clause.
	Criteria string

	// ApplicantName matches the first named applicant.
	ApplicantName string

	// ApplicationNumber identifies a single application, e.g. "16/123,456".
	ApplicationNumber string

	// PatentNumber identifies a granted patent.
	PatentNumber string

	// TechCenter is a four-digit technology center code, e.g. "2100".
	TechCenter string

	// ArtUnit is a four-digit art unit code, e.g. "2128".
	ArtUnit string

	// ClassCode is a CPC classification symbol, e.g. "G06F16/903".
	ClassCode string

	// FiledAfter is the inclusive lower filing-date bound, "YYYY-MM-DD".
	// One-sided ranges are legal.
	FiledAfter string

	// FiledBefore is the inclusive upper filing-date bound, "YYYY-MM-DD".
	FiledBefore string

	// Granted restricts results to granted (true) or pending (false)
	// applications. Nil leaves the flag out of the query.
	Granted *bool
}

// BuildResult is the outcome of building a query.
type BuildResult struct {
	// Query is the assembled expression. Clauses are joined with an
	// implicit AND. Non-empty iff at least one parameter validated.
	Query string

	// ParamsUsed maps field name to the normalized (post-trim) value that
	// contributed to Query. It mirrors Query exactly: a field appears here
	// iff its clause appears in Query.
	ParamsUsed map[string]string

	// Warnings lists, in validation order, one human-readable message per
	// parameter that was present but dropped. Absent parameters produce no
	// warning.
	Warnings []string
}
