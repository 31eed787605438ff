package models

import "errors"

// Domain error taxonomy. None of these are fatal to the pipeline; callers
// degrade per the fail-open policies and keep processing sibling records.
var (
	// ErrNotFound means no mapping or candidate exists. Expected, not an
	// operational error.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable means the reference vocabulary or calendar API
	// was unreachable or timed out. Degrades to not-found behavior but is
	// tagged distinctly so operators can tell "genuinely new" from
	// "couldn't check".
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
