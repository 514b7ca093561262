package engine

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/strategy"
)

// Step advances the simulation by exactly one tick, running the fixed
// five-stage algorithm documented on the package (SPEC_FULL §4.4). now must
// be e.Now()+1 the first call, and increase by exactly 1 on every
// subsequent call; the engine does not support replaying or skipping
// ticks.
func (e *Engine) Step(now int) error {
	if e.active == nil {
		return ErrNoStrategy
	}
	e.switchStrategyIfPending(now)

	delta := e.target - e.graph.Len()
	switch {
	case delta > 0:
		e.grow(delta, now)
	case delta < 0:
		e.shrink(-delta, now)
	}

	for _, m := range e.pool {
		m.Advance(now)
	}
	for _, l := range e.links {
		l.Advance(now)
	}
	e.prune()

	e.now = now
	return nil
}

func (e *Engine) buildParams(now int) strategy.BuildParams {
	return strategy.BuildParams{IDs: e.ids, Props: e.props, Now: now, RNG: e.rng}
}

// switchStrategyIfPending implements step 1: restartNetwork over the
// current pool, discarding the old wiring, whenever a strategy change was
// scheduled since the previous tick.
func (e *Engine) switchStrategyIfPending(now int) {
	if !e.hasPend {
		return
	}
	mirrors := make([]*mirror.Mirror, 0, len(e.pool))
	for _, m := range e.pool {
		mirrors = append(mirrors, m)
	}
	e.active = e.pending
	e.pending = nil
	e.hasPend = false

	if len(mirrors) == 0 {
		e.head = nil
		return
	}
	res, err := e.active.RestartNetwork(e.graph, mirrors, e.buildParams(now))
	if err != nil {
		e.logDegenerate(now, len(mirrors))
		return
	}
	e.head = res.Head
	e.registerLinks(res.Links)
}

// grow implements step 3: construct delta fresh Mirrors and integrate them
// via InitNetwork (first build) or HandleAddNewMirrors (subsequent growth).
// Each new mirror starts its lifecycle Down, not yet ready.
func (e *Engine) grow(delta int, now int) {
	fresh := make([]*mirror.Mirror, 0, delta)
	for i := 0; i < delta; i++ {
		m, err := mirror.New(e.ids.Next(), now, e.props, e.rng)
		if err != nil {
			continue
		}
		e.pool[m.ID()] = m
		fresh = append(fresh, m)
	}
	if len(fresh) == 0 {
		return
	}

	p := e.buildParams(now)
	var res strategy.Result
	var err error
	if e.head == nil {
		res, err = e.active.InitNetwork(e.graph, fresh, p)
	} else {
		res, err = e.active.HandleAddNewMirrors(e.graph, e.head, fresh, p)
	}
	if err != nil {
		e.logDegenerate(now, e.graph.Len()+len(fresh))
		return
	}
	if e.head == nil {
		e.head = res.Head
	}
	e.registerLinks(res.Links)
}

// shrink implements step 4: ask the active strategy to retire mirrors down
// to target (selection order is strategy-specific, SPEC_FULL §4.4 step 4),
// register any Link the removal had to splice in to keep the remainder
// connected (e.g. a ring closing over its gap), then shut each retired
// mirror down so its lifecycle state machine transitions out of Ready.
func (e *Engine) shrink(count int, now int) {
	if e.head == nil {
		return
	}
	keep := e.graph.Len() - count
	if keep < 0 {
		keep = 0
	}
	removed, links := e.active.HandleRemoveMirrors(e.graph, e.head, keep, e.buildParams(now))
	e.registerLinks(links)
	for _, mn := range removed {
		if mn.Mirror != nil {
			mn.Mirror.Shutdown()
		}
	}
	if e.graph.Len() == 0 {
		e.head = nil
	}
}

func (e *Engine) registerLinks(links []*mirror.Link) {
	e.links = append(e.links, links...)
}

// prune drops fully stopped, no-longer-wired mirrors from the pool and
// closed links from the registry, so both stay bounded across a long run.
func (e *Engine) prune() {
	for id, m := range e.pool {
		if m.GetState() != mirror.Stopped {
			continue
		}
		if _, ok := e.graph.FindByMirror(m.ID()); ok {
			continue
		}
		delete(e.pool, id)
	}

	live := e.links[:0]
	for _, l := range e.links {
		if l.GetState() == mirror.Closed {
			continue
		}
		live = append(live, l)
	}
	e.links = live
}

// logDegenerate records a DegenerateStrategy event: the active strategy
// could not satisfy its invariant at memberCount (SPEC_FULL §4.4 failure
// handling). The engine never halts; it logs and leaves the structure as
// whatever the strategy's build call last managed to place.
func (e *Engine) logDegenerate(tick, memberCount int) {
	e.logger.Warn("DegenerateStrategy",
		"strategy", e.active.Kind(),
		"tick", tick,
		"memberCount", memberCount,
	)
}
