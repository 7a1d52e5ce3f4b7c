package action

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/pixil98/go-botcore/internal/snapshot"
	"github.com/pixil98/go-log"
)

// Interaction ranges in world units. Re-checked at execution time: the
// distance that held when the worker decided may not hold anymore.
const (
	MeleeRange    = 5.0
	AbilityRange  = 30.0
	InteractRange = 5.0
	LootRange     = 5.0
)

// DefaultMaxPerTick bounds processor work per tick when unconfigured.
const DefaultMaxPerTick = 256

// LiveWorld is the authority-thread surface the processor mutates through.
// Resolve returns a current-as-of-call copy keyed by stable id; the
// mutation methods are the normal single-threaded world API.
type LiveWorld interface {
	Resolve(id string) (snapshot.Snapshot, bool)
	CanCast(actorID, abilityID string) bool
	Lootable(id string) bool

	Attack(actorID, targetID string) error
	Cast(actorID, targetID, abilityID string) error
	MoveTo(actorID string, pos snapshot.Position) error
	Interact(actorID, targetID string) error
	Loot(actorID, targetID string) error
	Say(actorID, targetID, message string) error
}

// Publisher delivers per-bot outcome events.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Outcome is the terminal state of a drained action.
type Outcome int

const (
	OutcomeExecuted Outcome = iota
	OutcomeRejected
)

func (o Outcome) String() string {
	if o == OutcomeExecuted {
		return "executed"
	}
	return "rejected"
}

// Result records what became of one drained action.
type Result struct {
	Action  Action
	Outcome Outcome
	Reason  string
}

// ProcessorStats is a point-in-time copy of the processor's counters.
type ProcessorStats struct {
	Executed uint64
	Rejected uint64
}

// Processor drains the queue once per tick on the authority thread and
// applies each action against current live state. Every identifier is
// re-resolved and every precondition re-checked as of now; a reference
// that went stale since the worker decided is a routine rejection, not an
// error.
type Processor struct {
	queue      *Queue
	world      LiveWorld
	pub        Publisher
	maxPerTick int

	executed atomic.Uint64
	rejected atomic.Uint64
}

func NewProcessor(queue *Queue, world LiveWorld, opts ...ProcessorOpt) *Processor {
	p := &Processor{
		queue:      queue,
		world:      world,
		maxPerTick: DefaultMaxPerTick,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Tick drains up to the configured number of actions and applies them in
// queue order. Anything beyond the bound stays queued for the next tick.
// Called every tick by the driver.
func (p *Processor) Tick(ctx context.Context) error {
	for _, a := range p.queue.Drain(p.maxPerTick) {
		res := p.apply(a)

		switch res.Outcome {
		case OutcomeExecuted:
			p.executed.Add(1)
		case OutcomeRejected:
			p.rejected.Add(1)
		}

		p.publish(ctx, res)
	}
	return nil
}

// Stats returns a copy of the processor's counters.
func (p *Processor) Stats() ProcessorStats {
	return ProcessorStats{
		Executed: p.executed.Load(),
		Rejected: p.rejected.Load(),
	}
}

func (p *Processor) apply(a Action) Result {
	actor, ok := p.world.Resolve(a.ActorID)
	if !ok {
		return rejected(a, "actor gone")
	}
	if !actor.Alive() {
		return rejected(a, "actor dead")
	}

	switch a.Kind {
	case KindAttack:
		if res, ok := p.checkTarget(a, actor, MeleeRange); !ok {
			return res
		}
		return p.execute(a, p.world.Attack(a.ActorID, a.TargetID))

	case KindCastAbility:
		if !p.world.CanCast(a.ActorID, a.AbilityID) {
			return rejected(a, "ability not usable")
		}
		if res, ok := p.checkTarget(a, actor, AbilityRange); !ok {
			return res
		}
		return p.execute(a, p.world.Cast(a.ActorID, a.TargetID, a.AbilityID))

	case KindMoveTo:
		return p.execute(a, p.world.MoveTo(a.ActorID, a.Pos))

	case KindInteract:
		target, ok := p.world.Resolve(a.TargetID)
		if !ok {
			return rejected(a, "target gone")
		}
		if actor.Pos.DistSq(target.Pos) > InteractRange*InteractRange {
			return rejected(a, "target out of range")
		}
		return p.execute(a, p.world.Interact(a.ActorID, a.TargetID))

	case KindLoot:
		target, ok := p.world.Resolve(a.TargetID)
		if !ok {
			return rejected(a, "target gone")
		}
		if !p.world.Lootable(a.TargetID) {
			return rejected(a, "nothing to loot")
		}
		if actor.Pos.DistSq(target.Pos) > LootRange*LootRange {
			return rejected(a, "target out of range")
		}
		return p.execute(a, p.world.Loot(a.ActorID, a.TargetID))

	case KindSendMessage:
		return p.execute(a, p.world.Say(a.ActorID, a.TargetID, a.Message))

	default:
		return rejected(a, "unknown action kind")
	}
}

// checkTarget re-validates the target's existence, liveness, and distance
// from the actor.
func (p *Processor) checkTarget(a Action, actor snapshot.Snapshot, maxRange float64) (Result, bool) {
	target, ok := p.world.Resolve(a.TargetID)
	if !ok {
		return rejected(a, "target gone"), false
	}
	if !target.Alive() {
		return rejected(a, "target dead"), false
	}
	if actor.Pos.DistSq(target.Pos) > maxRange*maxRange {
		return rejected(a, "target out of range"), false
	}
	return Result{}, true
}

// execute converts a world API error into a rejection. The error carries
// the reason; it never propagates past the processor.
func (p *Processor) execute(a Action, err error) Result {
	if err != nil {
		return rejected(a, err.Error())
	}
	return Result{Action: a, Outcome: OutcomeExecuted}
}

func rejected(a Action, reason string) Result {
	return Result{Action: a, Outcome: OutcomeRejected, Reason: reason}
}

// publish sends the outcome to the acting bot's subject. Delivery is best
// effort; a failed publish is logged and forgotten.
func (p *Processor) publish(ctx context.Context, res Result) {
	if p.pub == nil {
		return
	}

	data, err := json.Marshal(map[string]string{
		"action":  res.Action.Kind.String(),
		"actor":   res.Action.ActorID,
		"target":  res.Action.TargetID,
		"outcome": res.Outcome.String(),
		"reason":  res.Reason,
	})
	if err != nil {
		log.GetLogger(ctx).WithError(err).Errorf("marshalling action result")
		return
	}

	if err := p.pub.Publish("bot."+res.Action.ActorID, data); err != nil {
		log.GetLogger(ctx).WithError(err).Warnf("publishing action result for %s", res.Action.ActorID)
	}
}
