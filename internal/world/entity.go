package world

import (
	"time"

	"github.com/pixil98/go-botcore/internal/snapshot"
)

// Entity is one live thing in the world: a creature, a player-controlled
// unit, a static game object, or a transient effect area. Live entities are
// owned by the authority thread; nothing outside this package holds one.
// Everything that crosses the worker boundary is a snapshot copy or the
// entity's instance id.
type Entity struct {
	ID       string
	Template string
	Kind     snapshot.Kind
	Region   string
	Pos      snapshot.Position

	Health    int
	MaxHealth int
	Hostile   bool

	Level    int
	Faction  string
	TargetID string

	// Abilities a creature or player unit may cast, by ability id.
	Abilities []string

	// Lootable marks a game object (or corpse) whose contents may be taken.
	Lootable bool

	// ExpiresAt is set for transient effect areas; zero means no expiry.
	ExpiresAt time.Time
}

// Alive reports whether the entity can still act or be acted on.
func (e *Entity) Alive() bool {
	return e.Health > 0
}

// HasAbility reports whether the entity knows the given ability.
func (e *Entity) HasAbility(id string) bool {
	for _, a := range e.Abilities {
		if a == id {
			return true
		}
	}
	return false
}

// Snapshot captures the entity's decision-relevant fields as an immutable
// value. The generation stamp is applied by the grid during refresh.
func (e *Entity) Snapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		ID:        e.ID,
		Kind:      e.Kind,
		Pos:       e.Pos,
		Health:    e.Health,
		MaxHealth: e.MaxHealth,
		Dead:      !e.Alive(),
		Hostile:   e.Hostile,
		Level:     e.Level,
		Faction:   e.Faction,
		TargetID:  e.TargetID,
	}
}
