package node

import "github.com/rdmnet/rdmsim/topology"

// Variant is the uniform contract every typed node family implements
// (SPEC_FULL §4.2): a type identity, a validator over the structure's
// current membership, an admission predicate, and a removal predicate.
// Type-specific navigation lives alongside each Variant's concrete type as
// free functions (GetNextInRing, GetOtherEndpoint, Center, ...) because their
// signatures differ per family.
type Variant interface {
	// DeriveTypeID returns the StructureType this variant validates and
	// administers.
	DeriveTypeID() topology.StructureType

	// IsValidStructure reports whether the structure rooted at head
	// currently satisfies this variant's invariant. It returns nil when
	// valid, or an error wrapping ErrInvalidStructure describing the first
	// violation found.
	IsValidStructure(g *Graph, head *MirrorNode) error

	// CanAcceptMoreChildren reports whether n may gain another child within
	// the structure rooted at head.
	CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool

	// CanBeRemovedFromStructure reports whether n may be removed from the
	// structure rooted at head without the remaining members violating the
	// invariant.
	CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool
}

// members returns the structure's membership via the planning graph's
// deterministic traversal, the single source of truth every variant
// validates against (never a cached list).
func members(g *Graph, t topology.StructureType, head *MirrorNode) []*MirrorNode {
	nodes := g.Topo.CollectStructureMembers(t, head.Node)
	out := make([]*MirrorNode, 0, len(nodes))
	for _, n := range nodes {
		if mn, ok := g.Get(n.ID); ok {
			out = append(out, mn)
		}
	}
	return out
}
