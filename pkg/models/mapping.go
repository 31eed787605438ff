package models

import "time"

// EntityMapping is a learned translation from a source-system name to the
// target system's canonical name. One table per entity kind; team and league
// rows carry a sport context for disambiguation.
type EntityMapping struct {
	ID           string     `json:"id" db:"id"`
	SourceValue  string     `json:"source_value" db:"source_value"`
	TargetValue  string     `json:"target_value" db:"target_value"`
	Context      *string    `json:"context,omitempty" db:"context"`
	Confidence   float64    `json:"confidence" db:"confidence"`
	LastVerified time.Time  `json:"last_verified" db:"last_verified"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CreateMappingRequest is the request to insert a manually verified mapping.
// Manual mappings are stored at confidence 1.0.
type CreateMappingRequest struct {
	Kind        EntityKind `json:"kind" validate:"required"`
	SourceValue string     `json:"source_value" validate:"required"`
	TargetValue string     `json:"target_value" validate:"required"`
	Context     *string    `json:"context,omitempty"`
}

// ListMappingsRequest filters learned mappings for the admin API.
type ListMappingsRequest struct {
	Kind    EntityKind `query:"kind" validate:"required"`
	Context *string    `query:"context"`
	Limit   int        `query:"limit"`
	Offset  int        `query:"offset"`
}
