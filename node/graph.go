package node

import (
	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/topology"
)

// Graph pairs a topology.Graph (the planning substrate) with an arena of
// MirrorNode overlays keyed by the same ids, and implements the removal
// cascade the distilled spec requires (SPEC_FULL §3: "Removal cascades: all
// incident typed edges are unwired from the planning graph, all implemented
// links are closed via the Mirror's removeLink").
type Graph struct {
	Topo    *topology.Graph
	mirrors *id.Arena[MirrorNode]
}

// NewGraph returns an empty overlay graph drawing ids from src.
func NewGraph(src *id.Source) *Graph {
	return &Graph{Topo: topology.NewGraph(src), mirrors: id.NewArena[MirrorNode]()}
}

// NewMirrorNode allocates a fresh planning node with the given type
// memberships, wraps it in an unbound MirrorNode, and registers both.
func (g *Graph) NewMirrorNode(types ...topology.StructureType) *MirrorNode {
	n := g.Topo.NewNode(types...)
	mn := newMirrorNode(n)
	g.mirrors.Put(n.ID, mn)
	return mn
}

// Get returns the MirrorNode stored under nid, if any.
func (g *Graph) Get(nid id.ID) (*MirrorNode, bool) {
	return g.mirrors.Get(nid)
}

// Len returns the number of MirrorNodes in the overlay.
func (g *Graph) Len() int { return g.mirrors.Len() }

// All returns every MirrorNode in ascending-id order.
func (g *Graph) All() []*MirrorNode { return g.mirrors.Values() }

// FindByMirror returns the MirrorNode bound to the Mirror identified by mid,
// if any. Used by strategy restarts, which are handed a raw Mirror pool and
// need to locate (and tear down) each mirror's existing planning-graph node.
func (g *Graph) FindByMirror(mid id.ID) (*MirrorNode, bool) {
	for _, mn := range g.mirrors.Values() {
		if mn.Mirror != nil && mn.Mirror.ID() == mid {
			return mn, true
		}
	}
	return nil, false
}

// Remove detaches mn from the planning graph (unwiring every incident typed
// edge), closes every Link attached to its bound Mirror (if any), and frees
// its arena slot. Removing an already-removed node is a no-op (P6).
func (g *Graph) Remove(mn *MirrorNode) {
	if mn == nil {
		return
	}
	if mn.Mirror != nil {
		for _, l := range mn.Mirror.GetLinks() {
			l.Close()
		}
	}
	g.Topo.Remove(mn.Node)
	g.mirrors.Delete(mn.ID)
}
