package node

import (
	"fmt"

	"github.com/rdmnet/rdmsim/topology"
)

// DepthLimitTree implements the depth-limited tree specialization
// (SPEC_FULL §4.2.1): a Tree with a maximum depth and, optionally, a
// per-node child cap. MaxChildren <= 0 means unlimited.
type DepthLimitTree struct {
	MaxDepth    int
	MaxChildren int
}

var _ Variant = DepthLimitTree{}

// DeriveTypeID returns TypeDepthLimitTree.
func (DepthLimitTree) DeriveTypeID() topology.StructureType { return topology.TypeDepthLimitTree }

// IsValidStructure validates the base tree invariant plus depth(v) < MaxDepth
// for every non-leaf.
func (d DepthLimitTree) IsValidStructure(g *Graph, head *MirrorNode) error {
	if err := validateTree(g, topology.TypeDepthLimitTree, head); err != nil {
		return err
	}
	ms := members(g, topology.TypeDepthLimitTree, head)
	for _, m := range ms {
		if childCount(m, topology.TypeDepthLimitTree) == 0 {
			continue // leaf: unconstrained
		}
		depth := g.Topo.Depth(m.Node, topology.TypeDepthLimitTree)
		if depth >= d.MaxDepth {
			return fmt.Errorf("depthlimittree: non-leaf %d at depth %d >= maxDepth %d: %w", m.ID, depth, d.MaxDepth, ErrInvalidStructure)
		}
		if d.MaxChildren > 0 {
			if c := childCount(m, topology.TypeDepthLimitTree); c > d.MaxChildren {
				return fmt.Errorf("depthlimittree: node %d has %d children > maxChildren %d: %w", m.ID, c, d.MaxChildren, ErrInvalidStructure)
			}
		}
	}
	return nil
}

// CanAcceptMoreChildren reports true while n's own depth stays below
// MaxDepth (taking on a child makes n a non-leaf, and only non-leaves are
// bound by MaxDepth — a child itself may land exactly at MaxDepth as a
// leaf) and, if MaxChildren > 0, n's child count stays below it.
func (d DepthLimitTree) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	depth := g.Topo.Depth(n.Node, topology.TypeDepthLimitTree)
	if depth >= d.MaxDepth {
		return false
	}
	if d.MaxChildren > 0 && childCount(n, topology.TypeDepthLimitTree) >= d.MaxChildren {
		return false
	}
	return true
}

// CanBeRemovedFromStructure delegates to the base tree removal rule.
func (d DepthLimitTree) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return canRemoveTreeMember(g, topology.TypeDepthLimitTree, n, head)
}

// Capacity returns the maximum number of members a depth-limited tree of
// this shape can host: unbounded (-1) when MaxChildren <= 0, else the size
// of a complete MaxChildren-ary tree spanning every depth from 0 through
// MaxDepth inclusive (leaves are permitted at MaxDepth).
func (d DepthLimitTree) Capacity() int {
	if d.MaxChildren <= 0 {
		return -1
	}
	total := 0
	level := 1
	for depth := 0; depth <= d.MaxDepth; depth++ {
		total += level
		level *= d.MaxChildren
	}
	return total
}

// InsertionTarget picks the deepest member still under MaxDepth and under
// the per-node child cap, applying a look-ahead of one (SPEC_FULL §12
// supplement): among candidates at the deepest eligible depth, prefer one
// whose depth+1 would still satisfy MaxDepth after a second hypothetical
// insertion, i.e. depth+2 < MaxDepth, before falling back to any eligible
// candidate. It returns nil if no member has capacity.
func (d DepthLimitTree) InsertionTarget(g *Graph, head *MirrorNode) *MirrorNode {
	ms := members(g, topology.TypeDepthLimitTree, head)
	var bestLookahead, bestAny *MirrorNode
	lookaheadDepth, anyDepth := -1, -1
	for _, m := range ms {
		if !d.CanAcceptMoreChildren(g, m, head) {
			continue
		}
		depth := g.Topo.Depth(m.Node, topology.TypeDepthLimitTree)
		if depth > anyDepth {
			anyDepth, bestAny = depth, m
		}
		if depth+2 < d.MaxDepth && depth > lookaheadDepth {
			lookaheadDepth, bestLookahead = depth, m
		}
	}
	if bestLookahead != nil {
		return bestLookahead
	}
	return bestAny
}
