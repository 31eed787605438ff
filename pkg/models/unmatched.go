package models

import "time"

// UnmatchedItem records a resolution failure for operator triage. Unique per
// (source_system, item_kind, item_value); attempt_count only ever increments.
type UnmatchedItem struct {
	ID           string    `json:"id" db:"id"`
	SourceSystem string    `json:"source_system" db:"source_system"`
	ItemKind     string    `json:"item_kind" db:"item_kind"`
	ItemValue    string    `json:"item_value" db:"item_value"`
	Context      *string   `json:"context,omitempty" db:"context"`
	AttemptCount int       `json:"attempt_count" db:"attempt_count"`
	FirstAttempt time.Time `json:"first_attempt" db:"first_attempt"`
	LastAttempt  time.Time `json:"last_attempt" db:"last_attempt"`
}

// ListUnmatchedRequest filters the unmatched backlog.
type ListUnmatchedRequest struct {
	SourceSystem *string `query:"source_system"`
	ItemKind     *string `query:"item_kind"`
	Limit        int     `query:"limit"`
	Offset       int     `query:"offset"`
}
