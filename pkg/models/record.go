package models

import "time"

// IncomingRecord is a raw game record as produced by the source crawler.
// League may be absent; its absence is not a resolution failure.
type IncomingRecord struct {
	SourceGameID string    `json:"source_game_id" validate:"required"`
	Sport        string    `json:"sport" validate:"required"`
	League       *string   `json:"league,omitempty"`
	HomeTeam     string    `json:"home_team" validate:"required"`
	AwayTeam     string    `json:"away_team" validate:"required"`
	KickoffTime  time.Time `json:"kickoff_time" validate:"required"`
	Markets      []Market  `json:"markets,omitempty"`
}

// Market is a single odds offering on the incoming record. Only the bookmaker
// name participates in resolution; odds payloads pass through untouched.
type Market struct {
	Bookmaker string             `json:"bookmaker"`
	Odds      map[string]float64 `json:"odds,omitempty"`
}

// ResolutionMethod describes how a field was resolved.
type ResolutionMethod string

const (
	ResolutionMethodExact ResolutionMethod = "exact"
	ResolutionMethodFuzzy ResolutionMethod = "fuzzy"
	ResolutionMethodNone  ResolutionMethod = "none"
)

// Resolution is the per-field outcome of a Matcher call.
type Resolution struct {
	Value      string           `json:"value,omitempty"`
	Confidence float64          `json:"confidence"`
	Method     ResolutionMethod `json:"method"`
	// Degraded marks a miss caused by an unreachable vocabulary rather than
	// a genuine non-match. Degraded misses skip the unmatched ledger.
	Degraded bool `json:"degraded,omitempty"`
}

// Resolved reports whether the field was translated.
func (r Resolution) Resolved() bool {
	return r.Method == ResolutionMethodExact || r.Method == ResolutionMethodFuzzy
}
