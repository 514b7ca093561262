// Package engine implements the reconfiguration engine (SPEC_FULL §4.4):
// the routine that, once per tick, reconciles the realised mirror/link set
// with the current target mirror count and the current topology strategy.
//
// Step, called once per tick, runs a fixed five-stage algorithm:
//  1. Strategy switch: if a new strategy is pending, restartNetwork over the
//     current mirror pool and discard the old wiring entirely.
//  2. Compute delta = targetMirrorCount - currentMirrorCount.
//  3. Grow (delta > 0): construct delta fresh Mirrors and hand them to the
//     active strategy's handleAddNewMirrors.
//  4. Shrink (delta < 0): ask the active strategy's handleRemoveMirrors to
//     retire |delta| mirrors, then shut each one down.
//  5. Advance every Mirror and every Link by one tick.
//
// No operation within a tick observes partial results of a later step
// (SPEC_FULL §5), grounded on the teacher's single-pass, hook-driven
// traversal style (algorithms/bfs.go) rather than any concurrent scheduler.
package engine

import (
	"math/rand"

	"github.com/hashicorp/go-hclog"

	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/strategy"
)

// Config constructs an Engine.
type Config struct {
	IDs               *id.Source
	Strategy          strategy.Strategy
	TargetMirrorCount int
	Props             mirror.Props
	RNG               *rand.Rand
	Logger            hclog.Logger
}

// linksPerMirrorSetter is implemented by strategies whose per-mirror target
// degree is externally tunable (currently only BalancedTreeStrategy); the
// setTargetLinksPerMirror effector action is silently ignored against any
// strategy that does not implement it (SPEC_FULL §6: "ignored if
// meaningless for the active strategy").
type linksPerMirrorSetter interface {
	WithTargetLinksPerNode(n int) strategy.Strategy
}

// Engine owns the planning graph, the mirror pool, and the link registry
// exclusively during a tick (SPEC_FULL §5).
type Engine struct {
	graph  *node.Graph
	ids    *id.Source
	props  mirror.Props
	rng    *rand.Rand
	logger hclog.Logger

	active  strategy.Strategy
	pending strategy.Strategy
	hasPend bool

	head   *node.MirrorNode
	target int
	now    int

	pool  map[id.ID]*mirror.Mirror
	links []*mirror.Link
}

// New constructs an Engine with no mirrors yet; the first Step call that
// observes a positive target builds the initial network via the active
// strategy's InitNetwork.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Engine{
		graph:  node.NewGraph(cfg.IDs),
		ids:    cfg.IDs,
		props:  cfg.Props,
		rng:    cfg.RNG,
		logger: logger,
		active: cfg.Strategy,
		target: cfg.TargetMirrorCount,
		pool:   make(map[id.ID]*mirror.Mirror),
	}
}

// Graph returns the underlying planning graph, for probes.
func (e *Engine) Graph() *node.Graph { return e.graph }

// Head returns the active structure's head MirrorNode, or nil if no
// mirrors have been placed yet.
func (e *Engine) Head() *node.MirrorNode { return e.head }

// ActiveStrategy returns the strategy currently governing the structure.
func (e *Engine) ActiveStrategy() strategy.Strategy { return e.active }

// Now returns the last tick Step completed.
func (e *Engine) Now() int { return e.now }

// Target returns the currently scheduled target mirror count, i.e. what
// Step is reconciling toward on its next call — not necessarily what the
// engine was constructed with, once a setMirrors action has run.
func (e *Engine) Target() int { return e.target }

// SetTargetMirrorCount records the effector's setMirrors(count, atTick)
// action; it takes effect on the next Step call (SPEC_FULL §6).
func (e *Engine) SetTargetMirrorCount(n int) error {
	if n < 0 {
		return ErrNegativeTarget
	}
	e.target = n
	return nil
}

// SetStrategy records the effector's setStrategy(strategy, atTick) action;
// it takes effect at the start of the next Step call.
func (e *Engine) SetStrategy(s strategy.Strategy) {
	e.pending = s
	e.hasPend = true
}

// SetTargetLinksPerMirror applies the effector's convenience
// setTargetLinksPerMirror(n, atTick) action against the active strategy, if
// the active strategy supports it; otherwise it is a silent no-op.
func (e *Engine) SetTargetLinksPerMirror(n int) {
	if setter, ok := e.active.(linksPerMirrorSetter); ok {
		e.active = setter.WithTargetLinksPerNode(n)
	}
}

// Pool returns every Mirror the engine currently tracks, including mirrors
// mid-shutdown, in no particular order.
func (e *Engine) Pool() []*mirror.Mirror {
	out := make([]*mirror.Mirror, 0, len(e.pool))
	for _, m := range e.pool {
		out = append(out, m)
	}
	return out
}

// Links returns every Link the engine currently tracks, including closed
// ones not yet pruned.
func (e *Engine) Links() []*mirror.Link {
	out := make([]*mirror.Link, len(e.links))
	copy(out, e.links)
	return out
}
