package models

// EntityKind identifies one of the independently mapped vocabularies.
type EntityKind string

const (
	EntityKindSport     EntityKind = "sport"
	EntityKindLeague    EntityKind = "league"
	EntityKindTeam      EntityKind = "team"
	EntityKindBookmaker EntityKind = "bookmaker"
)

// AllEntityKinds lists every kind in resolution order.
var AllEntityKinds = []EntityKind{
	EntityKindSport,
	EntityKindLeague,
	EntityKindTeam,
	EntityKindBookmaker,
}

// IsValid returns true if the kind is one of the known vocabularies.
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindSport, EntityKindLeague, EntityKindTeam, EntityKindBookmaker:
		return true
	}
	return false
}

// HasContext reports whether lookups for this kind are scoped by a parent
// sport. Team and league names collide across sports, so those two carry a
// context column.
func (k EntityKind) HasContext() bool {
	return k == EntityKindTeam || k == EntityKindLeague
}

func (k EntityKind) String() string {
	return string(k)
}
