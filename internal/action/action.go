package action

import (
	"fmt"
	"time"

	"github.com/pixil98/go-botcore/internal/snapshot"
)

// Kind enumerates the closed set of mutations a decision worker may
// request. Adding a kind means extending Validate and the processor's
// switch; both fail loudly on an unknown kind.
type Kind int

const (
	KindAttack Kind = iota
	KindCastAbility
	KindMoveTo
	KindInteract
	KindLoot
	KindSendMessage
)

func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindCastAbility:
		return "cast"
	case KindMoveTo:
		return "move"
	case KindInteract:
		return "interact"
	case KindLoot:
		return "loot"
	case KindSendMessage:
		return "say"
	default:
		return "unknown"
	}
}

// Action is an immutable request for one world mutation. It carries only
// stable identifiers and plain values; the processor re-resolves every id
// against live state at execution time, because arbitrary time passes
// between the decision and the drain.
type Action struct {
	Kind Kind

	ActorID   string
	TargetID  string
	AbilityID string
	Pos       snapshot.Position
	Message   string

	// Priority orders draining: higher first, FIFO within equal priority.
	Priority int

	// EnqueuedAt is stamped by the queue if left zero.
	EnqueuedAt time.Time

	// seq is the queue's insertion counter, the FIFO tiebreaker.
	seq uint64
}

// Validate checks the kind-specific required fields. Malformed actions are
// rejected at the enqueue boundary and never reach the queue.
func (a *Action) Validate() error {
	if a.ActorID == "" {
		return fmt.Errorf("%s action requires an actor id", a.Kind)
	}

	switch a.Kind {
	case KindAttack, KindInteract, KindLoot:
		if a.TargetID == "" {
			return fmt.Errorf("%s action requires a target id", a.Kind)
		}
	case KindCastAbility:
		if a.TargetID == "" {
			return fmt.Errorf("%s action requires a target id", a.Kind)
		}
		if a.AbilityID == "" {
			return fmt.Errorf("%s action requires an ability id", a.Kind)
		}
	case KindMoveTo:
		if a.Pos.X < 0 || a.Pos.Y < 0 {
			return fmt.Errorf("%s action requires a valid position", a.Kind)
		}
	case KindSendMessage:
		if a.Message == "" {
			return fmt.Errorf("%s action requires a message", a.Kind)
		}
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}

	return nil
}
