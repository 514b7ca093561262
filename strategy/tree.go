package strategy

import (
	"math"

	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
	"github.com/rdmnet/rdmsim/treebuild"
)

// TreeStrategy builds and maintains a plain Tree (SPEC_FULL §4.2.1): no
// per-node child cap, no depth limit.
type TreeStrategy struct{}

var _ Strategy = TreeStrategy{}

// Kind returns TypeTree.
func (TreeStrategy) Kind() topology.StructureType { return topology.TypeTree }

// PreferLIFORemoval reports false: trees retire leaves first, not the most
// recently added mirror.
func (TreeStrategy) PreferLIFORemoval() bool { return false }

// InitNetwork builds a fresh tree rooted at the first mirror.
func (t TreeStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) == 0 {
		return Result{}, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeTree)
	if err != nil {
		return Result{}, err
	}
	head := nodes[0]
	head.Node.SetHead(topology.TypeTree, true)
	return buildTreeFrom(g, head, nodes[1:], p)
}

// InitNetworkSub builds the tree using anchor as the root, binding
// remaining to fresh MirrorNodes around it.
func (t TreeStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	members, err := bindAll(g, remaining, topology.TypeTree)
	if err != nil {
		return Result{}, err
	}
	return buildTreeFrom(g, anchor, members, p)
}

// buildTreeFrom wires already-bound members under anchor via level-order
// fill and materialises one Link per wired edge.
func buildTreeFrom(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, p BuildParams) (Result, error) {
	placements := treebuild.BalancedFill(g, anchor, members, math.MaxInt32)
	links := make([]*mirror.Link, 0, len(placements))
	for _, pl := range placements {
		link, err := wireEdge(g, pl.Parent, pl.Node, topology.TypeTree, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
	}
	all := append([]*node.MirrorNode{anchor}, members...)
	return Result{Head: anchor, Nodes: all, Links: links}, nil
}

// RestartNetwork tears down existing links/nodes and rebuilds.
func (t TreeStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return t.InitNetwork(g, ms, p) })
}

// HandleAddNewMirrors attaches each new mirror to the shallowest member
// with an open child slot (always true for a plain tree).
func (t TreeStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	nodes, err := bindAll(g, added, topology.TypeTree)
	if err != nil {
		return Result{}, err
	}
	links := make([]*mirror.Link, 0, len(nodes))
	for _, mn := range nodes {
		target := shallowestMember(g, head, topology.TypeTree)
		link, err := wireEdge(g, target, mn, topology.TypeTree, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
	}
	return Result{Head: head, Nodes: nodes, Links: links}, nil
}

// shallowestMember returns the t-tagged member of head's structure with the
// smallest graph-derived depth. Used by TreeStrategy, whose members have no
// per-node capacity cap to break ties on.
func shallowestMember(g *node.Graph, head *node.MirrorNode, t topology.StructureType) *node.MirrorNode {
	ms := g.Topo.CollectStructureMembers(t, head.Node)
	best := head
	bestDepth := math.MaxInt32
	for _, n := range ms {
		mn, ok := g.Get(n.ID)
		if !ok {
			continue
		}
		d := g.Topo.Depth(mn.Node, t)
		if d < bestDepth {
			best, bestDepth = mn, d
		}
	}
	return best
}

// HandleRemoveMirrors retires leaves first (deepest-first), falling back to
// the head only once it is the sole remaining member (SPEC_FULL §4.4 step
// 4(b): "leaves first for tree/star").
func (t TreeStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	tr := node.Tree{}
	var removed []*node.MirrorNode
	for {
		ms := g.Topo.CollectStructureMembers(topology.TypeTree, head.Node)
		if len(ms) <= targetCount {
			return removed, nil
		}
		victim := deepestRemovableMember(g, head, tr, topology.TypeTree)
		if victim == nil {
			return removed, nil
		}
		g.Remove(victim)
		removed = append(removed, victim)
	}
}

// removablePredicate is the shared shape of a Variant's removal check,
// used so deepestRemovableMember works for Tree, BalancedTree and
// DepthLimitTree without importing node.Variant's full interface.
type removablePredicate interface {
	CanBeRemovedFromStructure(g *node.Graph, n, head *node.MirrorNode) bool
}

func deepestRemovableMember(g *node.Graph, head *node.MirrorNode, v removablePredicate, t topology.StructureType) *node.MirrorNode {
	ms := g.Topo.CollectStructureMembers(t, head.Node)
	var best *node.MirrorNode
	bestDepth := -1
	for _, n := range ms {
		mn, ok := g.Get(n.ID)
		if !ok || mn.ID == head.ID {
			continue
		}
		if !v.CanBeRemovedFromStructure(g, mn, head) {
			continue
		}
		d := g.Topo.Depth(mn.Node, t)
		if d > bestDepth {
			best, bestDepth = mn, d
		}
	}
	if best == nil && v.CanBeRemovedFromStructure(g, head, head) {
		return head
	}
	return best
}

// GetPredictedNumTargetLinks returns m-1 for m >= 1, else 0.
func (TreeStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	if targetMirrorCount < 1 {
		return 0
	}
	return targetMirrorCount - 1
}

// GetNumTargetLinksPerMirror returns mn's current planned degree; a plain
// tree has no per-node target beyond "as many as the shape implies".
func (TreeStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return mn.NumPlannedLinks()
}
