package strategy

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
	"github.com/rdmnet/rdmsim/treebuild"
)

// BalancedTreeStrategy builds and maintains a BalancedTree (SPEC_FULL
// §4.2.1): a per-node child cap plus a standard-deviation balance metric.
type BalancedTreeStrategy struct {
	TargetLinksPerNode int
	Tolerance          float64
}

var _ Strategy = BalancedTreeStrategy{}

func (BalancedTreeStrategy) Kind() topology.StructureType { return topology.TypeBalancedTree }
func (BalancedTreeStrategy) PreferLIFORemoval() bool      { return false }

func (b BalancedTreeStrategy) variant() node.BalancedTree {
	return node.BalancedTree{TargetLinksPerNode: b.TargetLinksPerNode, Tolerance: b.Tolerance}
}

// WithTargetLinksPerNode returns a copy of b with TargetLinksPerNode set to
// n, for the effector's setTargetLinksPerMirror(n, atTick) convenience
// action (SPEC_FULL §6).
func (b BalancedTreeStrategy) WithTargetLinksPerNode(n int) Strategy {
	b.TargetLinksPerNode = n
	return b
}

// InitNetwork builds a fresh balanced tree rooted at the first mirror.
func (b BalancedTreeStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) == 0 {
		return Result{}, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeBalancedTree)
	if err != nil {
		return Result{}, err
	}
	head := nodes[0]
	head.Node.SetHead(topology.TypeBalancedTree, true)
	return b.buildFrom(g, head, nodes[1:], p)
}

// InitNetworkSub builds the balanced tree rooted at an externally supplied
// anchor.
func (b BalancedTreeStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	members, err := bindAll(g, remaining, topology.TypeBalancedTree)
	if err != nil {
		return Result{}, err
	}
	return b.buildFrom(g, anchor, members, p)
}

func (b BalancedTreeStrategy) buildFrom(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, p BuildParams) (Result, error) {
	placements := treebuild.BalancedFill(g, anchor, members, b.TargetLinksPerNode)
	links := make([]*mirror.Link, 0, len(placements))
	for _, pl := range placements {
		link, err := wireEdge(g, pl.Parent, pl.Node, topology.TypeBalancedTree, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
	}
	all := append([]*node.MirrorNode{anchor}, members...)
	return Result{Head: anchor, Nodes: all, Links: links}, nil
}

func (b BalancedTreeStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return b.InitNetwork(g, ms, p) })
}

// HandleAddNewMirrors inserts each new mirror at the target the balanced
// variant's InsertionTarget picks, recomputed after every placement so
// later insertions see the updated shape (SPEC_FULL §4.2.1 insertion
// policy).
func (b BalancedTreeStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	nodes, err := bindAll(g, added, topology.TypeBalancedTree)
	if err != nil {
		return Result{}, err
	}
	v := b.variant()
	links := make([]*mirror.Link, 0, len(nodes))
	for _, mn := range nodes {
		target := v.InsertionTarget(g, head)
		if target == nil {
			target = head
		}
		link, err := wireEdge(g, target, mn, topology.TypeBalancedTree, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
	}
	return Result{Head: head, Nodes: nodes, Links: links}, nil
}

// HandleRemoveMirrors retires leaves first, deepest first, mirroring
// TreeStrategy (a BalancedTree is still a tree for removal purposes).
func (b BalancedTreeStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	v := b.variant()
	var removed []*node.MirrorNode
	for {
		ms := g.Topo.CollectStructureMembers(topology.TypeBalancedTree, head.Node)
		if len(ms) <= targetCount {
			return removed, nil
		}
		victim := deepestRemovableMember(g, head, v, topology.TypeBalancedTree)
		if victim == nil {
			return removed, nil
		}
		g.Remove(victim)
		removed = append(removed, victim)
	}
}

// GetPredictedNumTargetLinks returns m-1 for m >= 1, else 0 (a balanced
// tree is still a tree for link counting purposes).
func (BalancedTreeStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	if targetMirrorCount < 1 {
		return 0
	}
	return targetMirrorCount - 1
}

// GetNumTargetLinksPerMirror returns TargetLinksPerNode for any non-leaf
// candidate position; probes read this as the strategy's intended degree
// regardless of mn's current fill level.
func (b BalancedTreeStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return b.TargetLinksPerNode
}
