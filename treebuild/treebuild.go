// Package treebuild provides the shared breadth-first construction
// algorithms the tree-family strategies (Tree, BalancedTree, DepthLimitTree)
// and the Snowflake substructure factory build on top of (SPEC_FULL §13,
// grounded on the teacher's deterministic constructor style in
// builder/impl_platonic.go and the frontier-expansion loop of
// gridgraph/gridgraph.go's component walk).
package treebuild

import (
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
)

// Placement describes where a single member ended up relative to its
// parent in a freshly built tree.
type Placement struct {
	Node   *node.MirrorNode
	Parent *node.MirrorNode
}

// BalancedFill attaches members under anchor in ascending-id order,
// filling each frontier node up to targetLinksPerNode children before
// advancing the frontier to the next depth level (classic level-order
// heap-shape construction). It never fails: a BalancedTree anchor always
// has room for arbitrarily many members given enough depth.
func BalancedFill(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, targetLinksPerNode int) []Placement {
	if targetLinksPerNode < 1 {
		targetLinksPerNode = 1
	}
	placements := make([]Placement, 0, len(members))
	frontier := []*node.MirrorNode{anchor}
	frontierChildren := map[uint64]int{}

	i := 0
	for i < len(members) {
		if len(frontier) == 0 {
			break // unreachable given targetLinksPerNode >= 1, guarded for safety
		}
		parent := frontier[0]
		key := uint64(parent.ID)
		if frontierChildren[key] >= targetLinksPerNode {
			frontier = frontier[1:]
			continue
		}
		child := members[i]
		if err := g.Topo.AddChild(parent.Node, child.Node, topology.NewTypeSet(topology.TypeBalancedTree), nil); err != nil {
			i++
			continue
		}
		frontierChildren[key]++
		placements = append(placements, Placement{Node: child, Parent: parent})
		frontier = append(frontier, child)
		i++
	}
	return placements
}

// DepthLimitedFill attaches as many members as fit under anchor without
// violating maxDepth (every non-leaf strictly below maxDepth) or, when
// maxChildren > 0, the per-node child cap. It returns the members it could
// not place (SPEC_FULL §4.4 scenario 4: "the remaining 60 mirrors remain
// unplaced").
func DepthLimitedFill(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, maxDepth, maxChildren int) (placements []Placement, unplaced []*node.MirrorNode) {
	type frontierEntry struct {
		n     *node.MirrorNode
		depth int
	}
	frontier := []frontierEntry{{n: anchor, depth: 0}}
	childCount := map[uint64]int{}

	i := 0
	for i < len(members) {
		if len(frontier) == 0 {
			unplaced = append(unplaced, members[i:]...)
			break
		}
		head := frontier[0]
		key := uint64(head.n.ID)
		atCap := maxChildren > 0 && childCount[key] >= maxChildren
		if head.depth >= maxDepth || atCap {
			frontier = frontier[1:]
			continue
		}
		child := members[i]
		if err := g.Topo.AddChild(head.n.Node, child.Node, topology.NewTypeSet(topology.TypeDepthLimitTree), nil); err != nil {
			i++
			continue
		}
		childCount[key]++
		placements = append(placements, Placement{Node: child, Parent: head.n})
		frontier = append(frontier, frontierEntry{n: child, depth: head.depth + 1})
		i++
	}
	return placements, unplaced
}

// Chain wires members into a simple directed chain starting at anchor,
// each tagged with t. Used by the Line and Ring strategies.
func Chain(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, t topology.StructureType) []Placement {
	placements := make([]Placement, 0, len(members))
	cur := anchor
	for _, m := range members {
		if err := g.Topo.AddChild(cur.Node, m.Node, topology.NewTypeSet(t), nil); err != nil {
			continue
		}
		placements = append(placements, Placement{Node: m, Parent: cur})
		cur = m
	}
	return placements
}
