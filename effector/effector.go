// Package effector implements the scheduled action queue the distilled spec
// calls the Effector collaborator (SPEC_FULL §6): setMirrors, setStrategy,
// and the convenience setTargetLinksPerMirror, each carrying a tick at
// which they take effect. There is no teacher analogue for a scheduler, so
// this package is new, grounded only on the engine's own deterministic,
// single-threaded ordering contract (SPEC_FULL §5): actions are totally
// ordered by scheduled tick, ties broken by submission order.
package effector

import (
	"sort"

	"github.com/rdmnet/rdmsim/engine"
	"github.com/rdmnet/rdmsim/strategy"
)

// Kind identifies which engine setter a scheduled Action invokes.
type Kind int

const (
	// SetMirrors invokes Engine.SetTargetMirrorCount.
	SetMirrors Kind = iota
	// SetStrategy invokes Engine.SetStrategy.
	SetStrategy
	// SetTargetLinksPerMirror invokes Engine.SetTargetLinksPerMirror.
	SetTargetLinksPerMirror
)

// Action is a single scheduled control action.
type Action struct {
	Kind     Kind
	AtTick   int
	Count    int
	Strategy strategy.Strategy

	seq uint64
}

// Effector queues Actions and releases them, in scheduled order, as the
// simulation reaches each tick.
type Effector struct {
	pending []Action
	seq     uint64
}

// New returns an empty Effector.
func New() *Effector {
	return &Effector{}
}

// ScheduleSetMirrors queues a setMirrors(count, atTick) action.
func (e *Effector) ScheduleSetMirrors(count, atTick int) {
	e.submit(Action{Kind: SetMirrors, AtTick: atTick, Count: count})
}

// ScheduleSetStrategy queues a setStrategy(s, atTick) action.
func (e *Effector) ScheduleSetStrategy(s strategy.Strategy, atTick int) {
	e.submit(Action{Kind: SetStrategy, AtTick: atTick, Strategy: s})
}

// ScheduleSetTargetLinksPerMirror queues a setTargetLinksPerMirror(n,
// atTick) action.
func (e *Effector) ScheduleSetTargetLinksPerMirror(n, atTick int) {
	e.submit(Action{Kind: SetTargetLinksPerMirror, AtTick: atTick, Count: n})
}

func (e *Effector) submit(a Action) {
	a.seq = e.seq
	e.seq++
	e.pending = append(e.pending, a)
}

// Pending returns every action not yet applied, in submission order.
func (e *Effector) Pending() []Action {
	out := make([]Action, len(e.pending))
	copy(out, e.pending)
	return out
}

// Apply releases every queued action scheduled at or before tick onto eng,
// in ascending (AtTick, submission order), then removes them from the
// queue. A strategy switch submitted for tick T only sees the mirror count
// set at tick T if the count action was submitted first (SPEC_FULL §5),
// which this ordering guarantees since both actions share AtTick and are
// broken only by submission sequence.
func (e *Effector) Apply(eng *engine.Engine, tick int) error {
	var ready, rest []Action
	for _, a := range e.pending {
		if a.AtTick <= tick {
			ready = append(ready, a)
		} else {
			rest = append(rest, a)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		if ready[i].AtTick != ready[j].AtTick {
			return ready[i].AtTick < ready[j].AtTick
		}
		return ready[i].seq < ready[j].seq
	})

	for _, a := range ready {
		switch a.Kind {
		case SetMirrors:
			if err := eng.SetTargetMirrorCount(a.Count); err != nil {
				return err
			}
		case SetStrategy:
			eng.SetStrategy(a.Strategy)
		case SetTargetLinksPerMirror:
			eng.SetTargetLinksPerMirror(a.Count)
		}
	}
	e.pending = rest
	return nil
}
