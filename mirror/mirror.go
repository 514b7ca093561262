package mirror

import (
	"fmt"
	"math/rand"

	"github.com/rdmnet/rdmsim/id"
)

// Props carries the lifecycle delay bounds a Mirror or Link is constructed
// with (SPEC_FULL §6 configuration keys). Each bound pair is a closed
// interval sampled uniformly at construction time.
type Props struct {
	StartupTimeMin int
	StartupTimeMax int
	ReadyTimeMin   int
	ReadyTimeMax   int
	StopTimeMin    int
	StopTimeMax    int

	LinkActivationTimeMin int
	LinkActivationTimeMax int
}

// uniformInt samples a uniform integer in the closed interval [lo, hi] using
// rng. If rng is nil, the midpoint is returned deterministically so callers
// that do not care about jitter still get valid, reproducible delays.
func uniformInt(lo, hi int, rng *rand.Rand) int {
	if hi < lo {
		hi = lo
	}
	if hi == lo {
		return lo
	}
	if rng == nil {
		return lo + (hi-lo)/2
	}
	return lo + rng.Intn(hi-lo+1)
}

// Mirror is a participating node in the simulated RDM network. It owns a set
// of Links and advances through MirrorState strictly by tick, per
// SPEC_FULL §6.
type Mirror struct {
	id        id.ID
	state     MirrorState
	readyAt   int // tick index relative to the mirror's own countdowns
	startupT  int // ticks to remain in Starting
	readyT    int // ticks to remain in Up
	stopT     int // ticks to remain in Stopping
	createdAt int
	links     map[id.ID]*Link
}

// New constructs a Mirror with delays sampled from props, created at tick
// now. rng may be nil for deterministic midpoint delays.
func New(mid id.ID, now int, props Props, rng *rand.Rand) (*Mirror, error) {
	if props.StartupTimeMin > props.StartupTimeMax {
		return nil, fmt.Errorf("mirror: New: %w", ErrInvalidDelayBounds)
	}
	if props.ReadyTimeMin > props.ReadyTimeMax {
		return nil, fmt.Errorf("mirror: New: %w", ErrInvalidDelayBounds)
	}
	if props.StopTimeMin > props.StopTimeMax {
		return nil, fmt.Errorf("mirror: New: %w", ErrInvalidDelayBounds)
	}

	return &Mirror{
		id:        mid,
		state:     Down,
		startupT:  uniformInt(props.StartupTimeMin, props.StartupTimeMax, rng),
		readyT:    uniformInt(props.ReadyTimeMin, props.ReadyTimeMax, rng),
		stopT:     uniformInt(props.StopTimeMin, props.StopTimeMax, rng),
		createdAt: now,
		links:     make(map[id.ID]*Link),
	}, nil
}

// ID returns the mirror's identifier.
func (m *Mirror) ID() id.ID { return m.id }

// GetState returns the mirror's current lifecycle state.
func (m *Mirror) GetState() MirrorState { return m.state }

// AddLink attaches l to this mirror. Idempotent: attaching an already
// attached link is a no-op rather than an error, to keep removal/addition
// sequences simple for the reconciliation engine.
func (m *Mirror) AddLink(l *Link) error {
	if l == nil {
		return ErrNilLink
	}
	m.links[l.ID()] = l
	return nil
}

// RemoveLink detaches l from this mirror. Removing a link that is not
// attached is a no-op (P6 idempotent removal).
func (m *Mirror) RemoveLink(l *Link) error {
	if l == nil {
		return ErrNilLink
	}
	delete(m.links, l.ID())
	return nil
}

// GetLinks returns the set of links currently attached to this mirror, in no
// particular order (callers that need determinism should sort by Link.ID()).
func (m *Mirror) GetLinks() []*Link {
	out := make([]*Link, 0, len(m.links))
	for _, l := range m.links {
		out = append(out, l)
	}
	return out
}

// IsLinkedWith reports whether this mirror shares an attached Link with
// other.
func (m *Mirror) IsLinkedWith(other *Mirror) bool {
	if other == nil {
		return false
	}
	for _, l := range m.links {
		if l.Other(m) == other {
			return true
		}
	}
	return false
}

// Shutdown transitions a Ready or Up or Starting mirror into Stopping. It is
// a no-op if the mirror is already stopping or stopped.
func (m *Mirror) Shutdown() {
	switch m.state {
	case Stopping, Stopped:
		return
	default:
		m.state = Stopping
	}
}

// Advance moves the mirror's lifecycle forward by one tick. now is passed for
// symmetry with Link.Advance and potential future stamping; the mirror's own
// countdowns are self-contained.
func (m *Mirror) Advance(now int) {
	switch m.state {
	case Down:
		m.state = Starting
	case Starting:
		if m.startupT <= 0 {
			m.state = Up
		} else {
			m.startupT--
		}
	case Up:
		if m.readyT <= 0 {
			m.state = Ready
		} else {
			m.readyT--
		}
	case Ready:
		// Remains ready until Shutdown is invoked by the engine.
	case Stopping:
		if m.stopT <= 0 {
			m.state = Stopped
		} else {
			m.stopT--
		}
	case Stopped:
		// Terminal.
	}
}
