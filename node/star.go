package node

import (
	"fmt"

	"github.com/rdmnet/rdmsim/topology"
)

// MinStarMembers is the smallest meaningful star (SPEC_FULL §4.2.4).
const MinStarMembers = 3

// Star implements the star invariant: one center (the head, with every
// other member as a direct child) and no grandchildren inside the star.
// A non-center member may itself be the head of a nested structure (a
// "child-head"), which the star does not descend into (its STAR-tagged
// child set stops at depth 1).
type Star struct{}

var _ Variant = Star{}

// DeriveTypeID returns TypeStar.
func (Star) DeriveTypeID() topology.StructureType { return topology.TypeStar }

// IsValidStructure validates that head is the sole center and no member has
// a STAR-tagged grandchild.
func (Star) IsValidStructure(g *Graph, head *MirrorNode) error {
	ms := members(g, topology.TypeStar, head)
	if len(ms) < MinStarMembers {
		return fmt.Errorf("star: head %d has %d members, need >= %d: %w", head.ID, len(ms), MinStarMembers, ErrTooFewMembers)
	}
	if head.Node.Parent != nil && head.Node.Parent.Types.Has(topology.TypeStar) {
		return fmt.Errorf("star: center %d has an internal star parent: %w", head.ID, ErrInvalidStructure)
	}
	for _, m := range ms {
		if m.ID == head.ID {
			continue
		}
		if m.Node.Parent == nil || m.Node.Parent.NodeID != head.ID || !m.Node.Parent.Types.Has(topology.TypeStar) {
			return fmt.Errorf("star: member %d is not a direct child of center %d: %w", m.ID, head.ID, ErrInvalidStructure)
		}
		if childCount(m, topology.TypeStar) > 0 {
			return fmt.Errorf("star: member %d has a STAR-tagged grandchild of the center: %w", m.ID, ErrInvalidStructure)
		}
	}
	return nil
}

// CanAcceptMoreChildren reports true only for the center.
func (Star) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return n.ID == head.ID
}

// CanBeRemovedFromStructure reports true for leaves (non-child-head members)
// while at least 2 leaves remain; the center is never removable via this
// predicate (removing it dissolves the star).
func (Star) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	if n.ID == head.ID || len(n.Node.HeadTypes()) > 0 {
		return false
	}
	leaves := 0
	for _, m := range members(g, topology.TypeStar, head) {
		if m.ID != head.ID && len(m.HeadTypes()) == 0 {
			leaves++
		}
	}
	return leaves >= 2
}

// Center returns the star's center, which is always its head.
func Center(head *MirrorNode) *MirrorNode { return head }
