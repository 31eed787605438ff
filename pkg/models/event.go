package models

import "time"

// CalendarEvent is an event row returned by the target system's calendar API.
type CalendarEvent struct {
	ID        string    `json:"id"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Sport     string    `json:"sport"`
	StartTime time.Time `json:"start_time"`
}

// EventMatch links a source game to the target calendar event it was matched
// to, with the similarity that justified the match and the kickoff delta.
// Unique per (source_game_id, event_id); re-matching is a no-op.
type EventMatch struct {
	ID             string    `json:"id" db:"id"`
	SourceGameID   string    `json:"source_game_id" db:"source_game_id"`
	EventID        string    `json:"event_id" db:"event_id"`
	HomeSimilarity float64   `json:"home_similarity" db:"home_similarity"`
	AwaySimilarity float64   `json:"away_similarity" db:"away_similarity"`
	KickoffDelta   int64     `json:"kickoff_delta_seconds" db:"kickoff_delta_seconds"`
	MatchedAt      time.Time `json:"matched_at" db:"matched_at"`
}
