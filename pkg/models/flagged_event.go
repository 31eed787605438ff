package models

import (
	"encoding/json"
	"time"
)

// FlaggedEvent is a non-ready record parked for operator review, with
// whatever translations did succeed and the elements still missing.
type FlaggedEvent struct {
	ID              string          `json:"id" db:"id"`
	SourceGameID    string          `json:"source_game_id" db:"source_game_id"`
	FlagReason      string          `json:"flag_reason" db:"flag_reason"`
	Status          string          `json:"status" db:"status"`
	Translations    json.RawMessage `json:"translations" db:"translations"`
	MissingElements json.RawMessage `json:"missing_elements" db:"missing_elements"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty" db:"resolved_at"`
}

// Flagged event review statuses.
const (
	FlaggedEventStatusPending  = "pending"
	FlaggedEventStatusResolved = "resolved"
)

// ListFlaggedEventsRequest filters the review queue.
type ListFlaggedEventsRequest struct {
	Status *string `query:"status"`
	Limit  int     `query:"limit"`
	Offset int     `query:"offset"`
}
