package models

import "time"

// ReferenceEntry is one row of the target system's authoritative vocabulary
// for an entity kind. ParentID holds the owning sport for leagues and teams.
type ReferenceEntry struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Active    bool       `json:"active" db:"active"`
	ParentID  *string    `json:"parent_id,omitempty" db:"parent_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// ListReferenceRequest pages the reference vocabulary for the admin API.
type ListReferenceRequest struct {
	Kind     EntityKind `query:"kind" validate:"required"`
	ParentID *string    `query:"parent_id"`
	Limit    int        `query:"limit"`
	Offset   int        `query:"offset"`
}
