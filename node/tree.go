package node

import (
	"fmt"

	"github.com/rdmnet/rdmsim/topology"
)

// MinTreeMembers is the smallest meaningful tree: a lone head.
const MinTreeMembers = 1

// Tree implements the base tree invariant (SPEC_FULL §4.2.1): exactly one
// head with no internal parent; every non-head member has exactly one
// parent inside the structure; |members|-1 edges; no cycles; every member
// reachable from the head.
type Tree struct{}

var _ Variant = Tree{}

// DeriveTypeID returns TypeTree.
func (Tree) DeriveTypeID() topology.StructureType { return topology.TypeTree }

// IsValidStructure validates the base tree invariant.
func (t Tree) IsValidStructure(g *Graph, head *MirrorNode) error {
	return validateTree(g, topology.TypeTree, head)
}

// validateTree is shared by Tree and its specializations (BalancedTree,
// DepthLimitTree), each of which layers additional checks on top.
func validateTree(g *Graph, typ topology.StructureType, head *MirrorNode) error {
	ms := members(g, typ, head)
	if len(ms) < MinTreeMembers {
		return fmt.Errorf("tree: head %d has %d members, need >= %d: %w", head.ID, len(ms), MinTreeMembers, ErrTooFewMembers)
	}
	if head.Node.Parent != nil && head.Node.Parent.Types.Has(typ) {
		return fmt.Errorf("tree: head %d has an internal %s parent: %w", head.ID, typ, ErrInvalidStructure)
	}

	edges := 0
	for _, m := range ms {
		if m.ID == head.ID {
			continue
		}
		if m.Node.Parent == nil || !m.Node.Parent.Types.Has(typ) {
			return fmt.Errorf("tree: non-head member %d has no internal %s parent: %w", m.ID, typ, ErrInvalidStructure)
		}
		edges++
	}
	if edges != len(ms)-1 {
		return fmt.Errorf("tree: expected %d edges, found %d: %w", len(ms)-1, edges, ErrInvalidStructure)
	}
	return nil
}

// CanAcceptMoreChildren reports true unconditionally: any tree member may
// accept more children.
func (Tree) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return true
}

// CanBeRemovedFromStructure reports true for a leaf (no in-structure
// children), or for the head when it is the sole remaining member.
func (t Tree) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return canRemoveTreeMember(g, topology.TypeTree, n, head)
}

func canRemoveTreeMember(g *Graph, typ topology.StructureType, n, head *MirrorNode) bool {
	if n.ID == head.ID {
		return len(members(g, typ, head)) == 1
	}
	for _, c := range n.Node.Children {
		if c.Types.Has(typ) {
			return false
		}
	}
	return true
}

// TreeDepth returns n's depth within the tree rooted at head (0 for the
// head), derived from the planning graph, never a stored field.
func TreeDepth(g *Graph, n *MirrorNode) int {
	return g.Topo.Depth(n.Node, topology.TypeTree)
}
