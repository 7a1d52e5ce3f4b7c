package snapshot

// Kind discriminates the entity categories captured by a grid refresh.
type Kind int

const (
	KindCreature Kind = iota
	KindPlayer
	KindGameObject
	KindAreaEffect

	kindCount
)

// Kinds lists every snapshot kind, in cell-bucket order.
func Kinds() []Kind {
	return []Kind{KindCreature, KindPlayer, KindGameObject, KindAreaEffect}
}

// NumKinds is the number of per-kind buckets a cell carries.
const NumKinds = int(kindCount)

func (k Kind) String() string {
	switch k {
	case KindCreature:
		return "creature"
	case KindPlayer:
		return "player"
	case KindGameObject:
		return "object"
	case KindAreaEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Position is a point in a region's 2D coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistSq returns the squared distance to other. Queries compare squared
// distances so the hot path never takes a square root.
func (p Position) DistSq(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Snapshot is an immutable copy of one live entity's decision-relevant
// fields as of the generation that captured it. It carries only values and
// opaque identifiers; it never references anything live. Decision workers
// read snapshots freely, the authority thread never reads them back.
type Snapshot struct {
	ID   string
	Kind Kind
	Pos  Position

	Health    int
	MaxHealth int
	Dead      bool
	Hostile   bool

	// Creature / player fields
	Level    int
	Faction  string
	TargetID string

	// Generation that captured this snapshot. Stamped by the double buffer
	// during refresh; zero only in hand-built test fixtures.
	Generation uint64
}

// IsValid reports whether the snapshot passes basic field sanity: a
// non-empty identifier and a health value its maximum can contain.
func (s *Snapshot) IsValid() bool {
	if s.ID == "" {
		return false
	}
	if s.MaxHealth > 0 && s.Health > s.MaxHealth {
		return false
	}
	return s.Health >= 0
}

// Alive reports whether the captured entity was alive at capture time.
func (s *Snapshot) Alive() bool {
	return !s.Dead && s.Health > 0
}
