// Package probe implements the distilled spec's read-only probe
// collaborators (SPEC_FULL §5: "Probes are read-only views snapshot-
// consistent at tick boundaries") plus the supplemented tick-history ring
// buffer (SPEC_FULL §12). A Prober never mutates the Engine it observes,
// grounded on the teacher's non-mutating graph-view pattern (core/view.go):
// every snapshot is a fresh copy, never a live reference into engine state.
package probe

import (
	"github.com/rdmnet/rdmsim/engine"
	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
)

// DefaultHistorySize is the default ring-buffer depth (SPEC_FULL §12).
const DefaultHistorySize = 64

// MirrorSnapshot is a read-only view of one Mirror's state and link
// counters at the tick the snapshot was taken.
type MirrorSnapshot struct {
	ID               id.ID
	State            mirror.MirrorState
	PlannedLinks     int
	ImplementedLinks int
	PendingLinks     int
}

// LinkSnapshot is a read-only view of one Link's endpoints and state.
type LinkSnapshot struct {
	ID       id.ID
	SourceID id.ID
	TargetID id.ID
	State    mirror.LinkState
}

// Tick bundles every Mirror and Link snapshot taken at one tick boundary.
type Tick struct {
	At     int
	Target int
	Mirror []MirrorSnapshot
	Link   []LinkSnapshot
}

// TotalImplementedLinks returns the count of links in this tick's snapshot
// that are not yet closed (pending or active).
func (t Tick) TotalImplementedLinks() int {
	n := 0
	for _, l := range t.Link {
		if l.State == mirror.Active || l.State == mirror.Pending {
			n++
		}
	}
	return n
}

// ReadyMirrors returns the count of mirrors in the Ready state.
func (t Tick) ReadyMirrors() int {
	n := 0
	for _, m := range t.Mirror {
		if m.State == mirror.Ready {
			n++
		}
	}
	return n
}

// Converged reports whether every mirror's links are fully implemented
// (no node has a pending planned-vs-implemented gap) and the mirror count
// matches the tick's recorded target — the simplest notion of "the
// realised network has caught up to the schedule" the distilled spec's
// probes can observe without reaching back into engine internals.
func (t Tick) Converged() bool {
	if len(t.Mirror) != t.Target {
		return false
	}
	for _, m := range t.Mirror {
		if m.PendingLinks != 0 {
			return false
		}
	}
	return true
}

// Prober snapshots an Engine and retains a bounded tick history.
type Prober struct {
	eng     *engine.Engine
	history *History
}

// New returns a Prober over eng with a history ring buffer sized
// historySize (DefaultHistorySize if historySize <= 0).
func New(eng *engine.Engine, historySize int) *Prober {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Prober{eng: eng, history: newHistory(historySize)}
}

// Snapshot builds a fresh, read-only Tick view of the engine's current
// state, stamped at, without touching the history buffer.
func (p *Prober) Snapshot(at, target int) Tick {
	nodes := p.eng.Graph().All()
	mirrors := make([]MirrorSnapshot, 0, len(nodes))
	for _, mn := range nodes {
		if mn.Mirror == nil {
			continue
		}
		mirrors = append(mirrors, MirrorSnapshot{
			ID:               mn.Mirror.ID(),
			State:            mn.Mirror.GetState(),
			PlannedLinks:     mn.NumPlannedLinks(),
			ImplementedLinks: mn.NumImplementedLinks(),
			PendingLinks:     mn.NumPendingLinks(),
		})
	}

	links := make([]LinkSnapshot, 0, len(p.eng.Links()))
	for _, l := range p.eng.Links() {
		links = append(links, LinkSnapshot{
			ID:       l.ID(),
			SourceID: l.Source().ID(),
			TargetID: l.Target().ID(),
			State:    l.GetState(),
		})
	}

	return Tick{At: at, Target: target, Mirror: mirrors, Link: links}
}

// RecordTick snapshots the engine and appends the snapshot to the history
// ring buffer, returning it.
func (p *Prober) RecordTick(at, target int) Tick {
	snap := p.Snapshot(at, target)
	p.history.push(snap)
	return snap
}

// History returns every retained tick snapshot, oldest first.
func (p *Prober) History() []Tick {
	return p.history.ordered()
}

// ConvergedAtTick returns the earliest recorded tick at which Tick.Converged
// held continuously through the most recent snapshot, or ok=false if no
// snapshot has converged yet.
func (p *Prober) ConvergedAtTick() (int, bool) {
	snaps := p.history.ordered()
	at := -1
	for i := len(snaps) - 1; i >= 0; i-- {
		if !snaps[i].Converged() {
			break
		}
		at = snaps[i].At
	}
	if at < 0 {
		return 0, false
	}
	return at, true
}
