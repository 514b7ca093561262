package mirror

import (
	"math/rand"

	"github.com/rdmnet/rdmsim/id"
)

// Link is an unordered pair of Mirrors. The core treats a Link as
// "implemented" the instant it is constructed; it becomes Active only after
// its construction delay elapses (SPEC_FULL §6).
type Link struct {
	id           id.ID
	source       *Mirror
	target       *Mirror
	state        LinkState
	creationTick int
	activationT  int // ticks remaining until Active
}

// NewLink constructs a Link between source and target, created at tick now,
// with an activation delay sampled from props. rng may be nil for a
// deterministic midpoint delay.
func NewLink(lid id.ID, source, target *Mirror, now int, props Props, rng *rand.Rand) (*Link, error) {
	if source == nil || target == nil {
		return nil, ErrNilMirror
	}
	if source == target {
		return nil, ErrSelfLink
	}
	if props.LinkActivationTimeMin > props.LinkActivationTimeMax {
		return nil, ErrInvalidDelayBounds
	}

	l := &Link{
		id:           lid,
		source:       source,
		target:       target,
		state:        Pending,
		creationTick: now,
		activationT:  uniformInt(props.LinkActivationTimeMin, props.LinkActivationTimeMax, rng),
	}
	_ = source.AddLink(l)
	_ = target.AddLink(l)
	return l, nil
}

// ID returns the link's identifier.
func (l *Link) ID() id.ID { return l.id }

// Source returns the link's source mirror.
func (l *Link) Source() *Mirror { return l.source }

// Target returns the link's target mirror.
func (l *Link) Target() *Mirror { return l.target }

// Other returns the endpoint of the link that is not m. It returns nil if m
// is neither endpoint.
func (l *Link) Other(m *Mirror) *Mirror {
	switch m {
	case l.source:
		return l.target
	case l.target:
		return l.source
	default:
		return nil
	}
}

// GetState returns the link's current lifecycle state.
func (l *Link) GetState() LinkState { return l.state }

// CreationTick returns the tick at which the link was constructed.
func (l *Link) CreationTick() int { return l.creationTick }

// Close transitions the link to Closed and detaches it from both endpoints.
// Closing an already-closed link is a no-op (P6).
func (l *Link) Close() {
	if l.state == Closed {
		return
	}
	l.state = Closed
	_ = l.source.RemoveLink(l)
	_ = l.target.RemoveLink(l)
}

// Advance moves the link's lifecycle forward by one tick. now is unused by
// the construction-delay countdown itself but is accepted so the engine can
// call every Link.Advance(now) uniformly (SPEC_FULL §4.3: strategies are
// pure w.r.t. now, but Advance still takes it for symmetry and future
// timestamping needs).
func (l *Link) Advance(now int) {
	switch l.state {
	case Pending:
		if l.activationT > 0 {
			l.activationT--
		}
		if l.activationT <= 0 {
			l.state = Active
		}
	case Active, Closed:
		// Active persists until Close(); Closed is terminal.
	}
}
