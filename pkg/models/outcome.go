package models

// ResolutionStatus is a record's terminal classification.
type ResolutionStatus string

const (
	ResolutionStatusReady      ResolutionStatus = "ready"
	ResolutionStatusPartial    ResolutionStatus = "partial"
	ResolutionStatusUnresolved ResolutionStatus = "unresolved"
)

// ResolutionOutcome is the orchestrator's output for one incoming record.
type ResolutionOutcome struct {
	SourceGameID string            `json:"source_game_id"`
	Status       ResolutionStatus  `json:"status"`
	Resolved     map[string]string `json:"resolved"`
	Missing      []string          `json:"missing"`
	EventID      *string           `json:"event_id"`
	// EventLookupFailed distinguishes "confirmed absent" from "could not
	// check" so downstream event creation can avoid duplicates.
	EventLookupFailed bool `json:"event_lookup_failed,omitempty"`
	// Bookmakers holds the per-market bookmaker translations. Never affects
	// classification.
	Bookmakers map[string]string `json:"bookmakers,omitempty"`
}
