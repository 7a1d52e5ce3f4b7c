package world

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-botcore/internal/snapshot"
)

// Publisher sends event payloads to interested subscribers.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Region is the live record of one registered world region.
type Region struct {
	ID       string
	Width    float64
	Height   float64
	CellSize float64
}

// WorldState is the single source of truth for all live entities. All
// mutation happens on the authority thread; the RWMutex exists for the
// read-only surfaces (console counters, snapshot enumeration) that other
// goroutines consume.
type WorldState struct {
	mu       sync.RWMutex
	pub      Publisher
	regions  map[string]*Region
	entities map[string]*Entity
	byRegion map[string]map[string]*Entity
}

// NewWorldState creates an empty world. The publisher receives chat
// payloads produced by Say; it may be nil in tests.
func NewWorldState(pub Publisher) *WorldState {
	return &WorldState{
		pub:      pub,
		regions:  make(map[string]*Region),
		entities: make(map[string]*Entity),
		byRegion: make(map[string]map[string]*Entity),
	}
}

// AddRegion registers a region. Entities can only be spawned into
// registered regions.
func (w *WorldState) AddRegion(r *Region) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.regions[r.ID]; exists {
		return fmt.Errorf("adding region %q: %w", r.ID, ErrRegionExists)
	}
	w.regions[r.ID] = r
	w.byRegion[r.ID] = make(map[string]*Entity)
	return nil
}

// RemoveRegion tears down a region and every entity in it. Returns the
// number of entities removed.
func (w *WorldState) RemoveRegion(id string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ents, ok := w.byRegion[id]
	if !ok {
		return 0, fmt.Errorf("removing region %q: %w", id, ErrRegionNotFound)
	}
	for eid := range ents {
		delete(w.entities, eid)
	}
	n := len(ents)
	delete(w.byRegion, id)
	delete(w.regions, id)
	return n, nil
}

// Regions returns the ids of all registered regions.
func (w *WorldState) Regions() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]string, 0, len(w.regions))
	for id := range w.regions {
		out = append(out, id)
	}
	return out
}

// Region returns a copy of the region record.
func (w *WorldState) Region(id string) (Region, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	r, ok := w.regions[id]
	if !ok {
		return Region{}, false
	}
	return *r, true
}

// Spawn places a new entity in the world. A missing ID is assigned a fresh
// UUID. Returns the entity's instance id.
func (w *WorldState) Spawn(e *Entity) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	region, ok := w.regions[e.Region]
	if !ok {
		return "", fmt.Errorf("spawning into region %q: %w", e.Region, ErrRegionNotFound)
	}
	if !w.inBounds(region, e.Pos) {
		return "", fmt.Errorf("spawning at (%g,%g): %w", e.Pos.X, e.Pos.Y, ErrOutOfBounds)
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if _, exists := w.entities[e.ID]; exists {
		return "", fmt.Errorf("spawning entity %q: %w", e.ID, ErrEntityExists)
	}

	w.entities[e.ID] = e
	w.byRegion[e.Region][e.ID] = e
	return e.ID, nil
}

// Remove deletes an entity from the world.
func (w *WorldState) Remove(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.entities[id]
	if !ok {
		return fmt.Errorf("removing entity %q: %w", id, ErrEntityNotFound)
	}
	delete(w.entities, id)
	delete(w.byRegion[e.Region], id)
	return nil
}

// Resolve returns a current-as-of-call copy of the entity's state, keyed
// by its stable instance id. This is the only way identifiers crossing the
// worker boundary turn back into state, and only the authority thread and
// read-only surfaces use it.
func (w *WorldState) Resolve(id string) (snapshot.Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.entities[id]
	if !ok {
		return snapshot.Snapshot{}, false
	}
	return e.Snapshot(), true
}

// CanCast reports whether the entity exists and knows the ability.
func (w *WorldState) CanCast(id, abilityID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.entities[id]
	return ok && e.HasAbility(abilityID)
}

// Lootable reports whether the entity exists and currently has takeable
// contents.
func (w *WorldState) Lootable(id string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	e, ok := w.entities[id]
	return ok && e.Lootable
}

// EachEntity enumerates every entity in the region as snapshot copies.
// Satisfies the grid refresh source contract: stable ids, state current as
// of this call.
func (w *WorldState) EachEntity(region string, fn func(snapshot.Snapshot)) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	ents, ok := w.byRegion[region]
	if !ok {
		return fmt.Errorf("enumerating region %q: %w", region, ErrRegionNotFound)
	}
	for _, e := range ents {
		fn(e.Snapshot())
	}
	return nil
}

// Counts returns the number of regions and live entities.
func (w *WorldState) Counts() (regions, entities int) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.regions), len(w.entities)
}

// Attack applies one melee hit from actor to target. A kill clears target
// references to the victim and leaves a lootable corpse.
func (w *WorldState) Attack(actorID, targetID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	actor, target, err := w.pair(actorID, targetID)
	if err != nil {
		return err
	}

	actor.TargetID = targetID
	w.damage(target, meleeDamage(actor.Level))
	return nil
}

// Cast applies the named ability from actor to target.
func (w *WorldState) Cast(actorID, targetID, abilityID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	actor, target, err := w.pair(actorID, targetID)
	if err != nil {
		return err
	}
	if !actor.HasAbility(abilityID) {
		return fmt.Errorf("entity %q does not know ability %q", actorID, abilityID)
	}

	actor.TargetID = targetID
	w.damage(target, abilityDamage(actor.Level))
	return nil
}

// MoveTo sets the actor's position, bounds-checked against its region.
func (w *WorldState) MoveTo(actorID string, pos snapshot.Position) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	actor, ok := w.entities[actorID]
	if !ok {
		return fmt.Errorf("moving entity %q: %w", actorID, ErrEntityNotFound)
	}
	region := w.regions[actor.Region]
	if !w.inBounds(region, pos) {
		return fmt.Errorf("moving to (%g,%g): %w", pos.X, pos.Y, ErrOutOfBounds)
	}

	actor.Pos = pos
	return nil
}

// Interact triggers a game object. The object must still be present; what
// the interaction does is the object's concern, the world only records
// that the actor now targets it.
func (w *WorldState) Interact(actorID, targetID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	actor, target, err := w.pair(actorID, targetID)
	if err != nil {
		return err
	}
	if target.Kind != snapshot.KindGameObject {
		return fmt.Errorf("entity %q is not interactable", targetID)
	}

	actor.TargetID = targetID
	return nil
}

// Loot empties a lootable target.
func (w *WorldState) Loot(actorID, targetID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, target, err := w.pair(actorID, targetID)
	if err != nil {
		return err
	}
	if !target.Lootable {
		return fmt.Errorf("entity %q has nothing to loot", targetID)
	}

	target.Lootable = false
	return nil
}

// Say publishes a chat payload from the actor to its region's subject, or
// to the target's subject for a whisper.
func (w *WorldState) Say(actorID, targetID, message string) error {
	w.mu.RLock()
	actor, ok := w.entities[actorID]
	var subject string
	if ok {
		subject = "chat." + actor.Region
		if targetID != "" {
			subject = "bot." + targetID
		}
	}
	w.mu.RUnlock()

	if !ok {
		return fmt.Errorf("entity %q speaking: %w", actorID, ErrEntityNotFound)
	}
	if w.pub == nil {
		return nil
	}

	data, err := json.Marshal(map[string]string{
		"from":    actorID,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("marshalling chat payload: %w", err)
	}
	return w.pub.Publish(subject, data)
}

// Tick regenerates out-of-combat entities and expires effect areas.
// Called every tick by the driver on the authority thread.
func (w *WorldState) Tick(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	for id, e := range w.entities {
		if e.Kind == snapshot.KindAreaEffect {
			if !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt) {
				delete(w.entities, id)
				delete(w.byRegion[e.Region], id)
			}
			continue
		}
		if e.Alive() && e.TargetID == "" && e.Health < e.MaxHealth {
			e.Health++
		}
	}
	return nil
}

func (w *WorldState) pair(actorID, targetID string) (*Entity, *Entity, error) {
	actor, ok := w.entities[actorID]
	if !ok {
		return nil, nil, fmt.Errorf("actor %q: %w", actorID, ErrEntityNotFound)
	}
	target, ok := w.entities[targetID]
	if !ok {
		return nil, nil, fmt.Errorf("target %q: %w", targetID, ErrEntityNotFound)
	}
	return actor, target, nil
}

// damage applies dmg to the target and handles the kill transition.
func (w *WorldState) damage(target *Entity, dmg int) {
	target.Health -= dmg
	if target.Health > 0 {
		return
	}
	target.Health = 0
	target.Lootable = true
	target.TargetID = ""

	// Clear stale target references to the victim.
	for _, e := range w.entities {
		if e.TargetID == target.ID {
			e.TargetID = ""
		}
	}
}

func (w *WorldState) inBounds(r *Region, p snapshot.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < r.Width && p.Y < r.Height
}

func meleeDamage(level int) int {
	if level < 1 {
		level = 1
	}
	return 1 + level/2
}

func abilityDamage(level int) int {
	if level < 1 {
		level = 1
	}
	return 2 + level
}
