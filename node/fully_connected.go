package node

import (
	"fmt"

	"github.com/rdmnet/rdmsim/topology"
)

// MinFullyConnectedMembers is the smallest meaningful fully-connected
// structure (SPEC_FULL §4.2.5).
const MinFullyConnectedMembers = 2

// FullyConnected implements the complete-graph invariant. Unlike the
// tree-shaped families, membership here is symmetric: an edge between peers
// a and b is recorded as a FULLY_CONNECTED-tagged child entry on *both* a
// and b (see ConnectPeers), mirroring how the teacher's undirected-edge
// views double-book adjacency in both directions (core/view.go). Parent
// references play no role in this family's validity.
type FullyConnected struct{}

var _ Variant = FullyConnected{}

// DeriveTypeID returns TypeFullyConnected.
func (FullyConnected) DeriveTypeID() topology.StructureType { return topology.TypeFullyConnected }

// IsValidStructure validates that every member's FULLY_CONNECTED-tagged
// child count equals len(members)-1 (every pair of members is connected).
func (FullyConnected) IsValidStructure(g *Graph, head *MirrorNode) error {
	ms := members(g, topology.TypeFullyConnected, head)
	if len(ms) < MinFullyConnectedMembers {
		return fmt.Errorf("fullyconnected: head %d has %d members, need >= %d: %w", head.ID, len(ms), MinFullyConnectedMembers, ErrTooFewMembers)
	}
	want := len(ms) - 1
	for _, m := range ms {
		if c := childCount(m, topology.TypeFullyConnected); c != want {
			return fmt.Errorf("fullyconnected: node %d has degree %d, want %d: %w", m.ID, c, want, ErrInvalidStructure)
		}
	}
	return nil
}

// CanAcceptMoreChildren reports true unconditionally: a new member gains an
// edge to every existing member.
func (FullyConnected) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return true
}

// CanBeRemovedFromStructure reports true while at least
// MinFullyConnectedMembers members remain.
func (FullyConnected) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return len(members(g, topology.TypeFullyConnected, head)) >= MinFullyConnectedMembers
}

// ConnectPeers wires a symmetric edge tagged t between a and b by recording
// each as the other's child; neither node's Parent edge is touched, so a
// node can have any number of peers. Used by FullyConnected and NConnected,
// whose adjacency is undirected rather than hierarchical.
func ConnectPeers(g *Graph, a, b *MirrorNode, t topology.StructureType) error {
	for _, e := range [2][2]*MirrorNode{{a, b}, {b, a}} {
		from, to := e[0].Node, e[1].Node
		i := 0
		for i < len(from.Children) && from.Children[i].NodeID != to.ID {
			i++
		}
		if i == len(from.Children) {
			from.Children = append(from.Children, topology.ChildEdge{NodeID: to.ID, Types: topology.NewTypeSet()})
		}
		from.Children[i].Types.Add(t)
	}
	return nil
}

// DisconnectPeers removes the symmetric edge tagged t between a and b.
func DisconnectPeers(g *Graph, a, b *MirrorNode, t topology.StructureType) error {
	if err := g.Topo.RemoveChild(a.Node, b.Node, topology.NewTypeSet(t)); err != nil {
		return err
	}
	return g.Topo.RemoveChild(b.Node, a.Node, topology.NewTypeSet(t))
}

// ArePeersConnected reports whether a and b share a t-tagged edge.
func ArePeersConnected(a, b *MirrorNode, t topology.StructureType) bool {
	for _, c := range a.Node.Children {
		if c.NodeID == b.ID && c.Types.Has(t) {
			return true
		}
	}
	return false
}
