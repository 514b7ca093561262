package node

import (
	"fmt"

	"github.com/rdmnet/rdmsim/topology"
)

// MinLineMembers is the smallest meaningful line (SPEC_FULL §4.2.2).
const MinLineMembers = 2

// Line implements the line invariant: a simple chain with exactly two
// degree-1 endpoints and no branching, represented as a directed chain in
// the planning graph (each node has at most one LINE-tagged child).
type Line struct{}

var _ Variant = Line{}

// DeriveTypeID returns TypeLine.
func (Line) DeriveTypeID() topology.StructureType { return topology.TypeLine }

// IsValidStructure validates the line invariant.
func (Line) IsValidStructure(g *Graph, head *MirrorNode) error {
	ms := members(g, topology.TypeLine, head)
	if len(ms) < MinLineMembers {
		return fmt.Errorf("line: head %d has %d members, need >= %d: %w", head.ID, len(ms), MinLineMembers, ErrTooFewMembers)
	}
	if head.Node.Parent != nil && head.Node.Parent.Types.Has(topology.TypeLine) {
		return fmt.Errorf("line: head %d is not an endpoint (has a parent): %w", head.ID, ErrInvalidStructure)
	}

	endpoints := 0
	for _, m := range ms {
		c := childCount(m, topology.TypeLine)
		if c > 1 {
			return fmt.Errorf("line: node %d branches with %d children: %w", m.ID, c, ErrInvalidStructure)
		}
		isHeadless := m.Node.Parent == nil || !m.Node.Parent.Types.Has(topology.TypeLine)
		if isHeadless && m.ID != head.ID {
			return fmt.Errorf("line: node %d has no line parent but is not the head: %w", m.ID, ErrInvalidStructure)
		}
		if c == 0 || isHeadless {
			endpoints++
		}
	}
	if endpoints != 2 {
		return fmt.Errorf("line: expected 2 endpoints, found %d: %w", endpoints, ErrInvalidStructure)
	}
	return nil
}

// CanAcceptMoreChildren reports true for the current tail endpoint (the
// member with zero LINE children); every other member already has its one
// permitted child.
func (Line) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return childCount(n, topology.TypeLine) == 0
}

// CanBeRemovedFromStructure reports true only for endpoints, and only while
// the line has at least 3 members (removing the last endpoint of a 2-member
// line would leave a single, headless node).
func (Line) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	ms := members(g, topology.TypeLine, head)
	if len(ms) < 3 {
		return false
	}
	isEndpoint := n.ID == head.ID || childCount(n, topology.TypeLine) == 0
	return isEndpoint
}

// GetOtherEndpoint walks the chain from head to the opposite endpoint (the
// member with zero LINE children).
func GetOtherEndpoint(g *Graph, head *MirrorNode) *MirrorNode {
	cur := head
	for {
		next := lineChild(g, cur)
		if next == nil {
			return cur
		}
		cur = next
	}
}

// GetPositionInLine returns n's distance (in edges) from head along the
// chain.
func GetPositionInLine(g *Graph, n *MirrorNode) int {
	return g.Topo.Depth(n.Node, topology.TypeLine)
}

func lineChild(g *Graph, n *MirrorNode) *MirrorNode {
	for _, c := range n.Node.Children {
		if c.Types.Has(topology.TypeLine) {
			if child, ok := g.Get(c.NodeID); ok {
				return child
			}
		}
	}
	return nil
}
