package node

import (
	"fmt"

	"github.com/rdmnet/rdmsim/topology"
)

// MinRingMembers is the smallest meaningful ring (SPEC_FULL §4.2.3).
const MinRingMembers = 3

// Ring implements the ring invariant via the canonical-walk abstraction
// (SPEC_FULL §9 open question resolution): the cycle is represented as a
// closed directed chain — each member's single RING-tagged child is its
// successor in the walk, and the last member's child is the head, closing
// the loop.
type Ring struct{}

var _ Variant = Ring{}

// DeriveTypeID returns TypeRing.
func (Ring) DeriveTypeID() topology.StructureType { return topology.TypeRing }

// IsValidStructure validates that every member has in-ring degree exactly 2
// (one RING-tagged parent, one RING-tagged child) and the walk from head
// covers every member exactly once.
func (Ring) IsValidStructure(g *Graph, head *MirrorNode) error {
	ms := members(g, topology.TypeRing, head)
	if len(ms) < MinRingMembers {
		return fmt.Errorf("ring: head %d has %d members, need >= %d: %w", head.ID, len(ms), MinRingMembers, ErrTooFewMembers)
	}
	for _, m := range ms {
		if childCount(m, topology.TypeRing) != 1 {
			return fmt.Errorf("ring: node %d has %d ring children, need exactly 1: %w", m.ID, childCount(m, topology.TypeRing), ErrInvalidStructure)
		}
		if m.Node.Parent == nil || !m.Node.Parent.Types.Has(topology.TypeRing) {
			return fmt.Errorf("ring: node %d has no ring parent: %w", m.ID, ErrInvalidStructure)
		}
	}
	// The walk from head must return to head after exactly len(ms) steps.
	cur := GetNextInRing(g, head)
	steps := 1
	for cur != nil && cur.ID != head.ID && steps <= len(ms) {
		cur = GetNextInRing(g, cur)
		steps++
	}
	if cur == nil || cur.ID != head.ID || steps != len(ms) {
		return fmt.Errorf("ring: walk from head %d does not close after %d members: %w", head.ID, len(ms), ErrInvalidStructure)
	}
	return nil
}

// CanAcceptMoreChildren reports true only when n's outgoing walk slot is
// vacant, i.e. the ring has been deliberately opened at n to admit a new
// member (a fully closed ring never has a vacant slot).
func (Ring) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return childCount(n, topology.TypeRing) == 0
}

// CanBeRemovedFromStructure reports true for any member while the ring has
// at least 4 members (so the remaining 3 still satisfy MinRingMembers).
func (Ring) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return len(members(g, topology.TypeRing, head)) >= MinRingMembers+1
}

// GetNextInRing returns n's successor in the canonical walk.
func GetNextInRing(g *Graph, n *MirrorNode) *MirrorNode {
	for _, c := range n.Node.Children {
		if c.Types.Has(topology.TypeRing) {
			if child, ok := g.Get(c.NodeID); ok {
				return child
			}
		}
	}
	return nil
}

// GetPreviousInRing returns n's predecessor in the canonical walk.
func GetPreviousInRing(g *Graph, n *MirrorNode) *MirrorNode {
	if n.Node.Parent == nil || !n.Node.Parent.Types.Has(topology.TypeRing) {
		return nil
	}
	prev, ok := g.Get(n.Node.Parent.NodeID)
	if !ok {
		return nil
	}
	return prev
}
