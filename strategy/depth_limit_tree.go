package strategy

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
	"github.com/rdmnet/rdmsim/treebuild"
)

// DepthLimitTreeStrategy builds and maintains a DepthLimitTree (SPEC_FULL
// §4.2.1): a maximum depth and, optionally, a per-node child cap.
// MaxChildren <= 0 means unlimited.
type DepthLimitTreeStrategy struct {
	MaxDepth    int
	MaxChildren int
}

var _ Strategy = DepthLimitTreeStrategy{}

func (DepthLimitTreeStrategy) Kind() topology.StructureType { return topology.TypeDepthLimitTree }
func (DepthLimitTreeStrategy) PreferLIFORemoval() bool      { return false }

func (d DepthLimitTreeStrategy) variant() node.DepthLimitTree {
	return node.DepthLimitTree{MaxDepth: d.MaxDepth, MaxChildren: d.MaxChildren}
}

func (d DepthLimitTreeStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) == 0 {
		return Result{}, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeDepthLimitTree)
	if err != nil {
		return Result{}, err
	}
	head := nodes[0]
	head.Node.SetHead(topology.TypeDepthLimitTree, true)
	res, _, err := d.buildFrom(g, head, nodes[1:], p)
	return res, err
}

func (d DepthLimitTreeStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	members, err := bindAll(g, remaining, topology.TypeDepthLimitTree)
	if err != nil {
		return Result{}, err
	}
	res, _, err := d.buildFrom(g, anchor, members, p)
	return res, err
}

// BuildWithUnplaced behaves like InitNetwork but additionally reports the
// members that capacity could not accommodate. The engine does not call it;
// InitNetwork and InitNetworkSub discard the unplaced list.
func (d DepthLimitTreeStrategy) BuildWithUnplaced(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, []*node.MirrorNode, error) {
	if len(mirrors) == 0 {
		return Result{}, nil, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeDepthLimitTree)
	if err != nil {
		return Result{}, nil, err
	}
	head := nodes[0]
	head.Node.SetHead(topology.TypeDepthLimitTree, true)
	return d.buildFrom(g, head, nodes[1:], p)
}

func (d DepthLimitTreeStrategy) buildFrom(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, p BuildParams) (Result, []*node.MirrorNode, error) {
	placements, unplaced := treebuild.DepthLimitedFill(g, anchor, members, d.MaxDepth, d.MaxChildren)
	links := make([]*mirror.Link, 0, len(placements))
	for _, pl := range placements {
		link, err := wireEdge(g, pl.Parent, pl.Node, topology.TypeDepthLimitTree, p)
		if err != nil {
			return Result{}, nil, err
		}
		links = append(links, link)
	}
	placed := make([]*node.MirrorNode, 0, len(placements)+1)
	placed = append(placed, anchor)
	for _, pl := range placements {
		placed = append(placed, pl.Node)
	}
	return Result{Head: anchor, Nodes: placed, Links: links}, unplaced, nil
}

func (d DepthLimitTreeStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return d.InitNetwork(g, ms, p) })
}

// HandleAddNewMirrors inserts each new mirror at the deepest
// look-ahead-eligible candidate (SPEC_FULL §12 supplement). A mirror that
// finds no candidate with capacity is skipped: it gets no MirrorNode and no
// error is returned, so the engine logs no DegenerateStrategy event for it.
func (d DepthLimitTreeStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	v := d.variant()
	nodes := make([]*node.MirrorNode, 0, len(added))
	links := make([]*mirror.Link, 0, len(added))
	for _, m := range added {
		target := v.InsertionTarget(g, head)
		if target == nil {
			continue // capacity exhausted; the mirror stays unplaced
		}
		mn := g.NewMirrorNode(topology.TypeDepthLimitTree)
		if err := mn.Bind(m); err != nil {
			return Result{}, err
		}
		link, err := wireEdge(g, target, mn, topology.TypeDepthLimitTree, p)
		if err != nil {
			return Result{}, err
		}
		nodes = append(nodes, mn)
		links = append(links, link)
	}
	return Result{Head: head, Nodes: nodes, Links: links}, nil
}

// HandleRemoveMirrors retires leaves first, deepest first.
func (d DepthLimitTreeStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	v := d.variant()
	var removed []*node.MirrorNode
	for {
		ms := g.Topo.CollectStructureMembers(topology.TypeDepthLimitTree, head.Node)
		if len(ms) <= targetCount {
			return removed, nil
		}
		victim := deepestRemovableMember(g, head, v, topology.TypeDepthLimitTree)
		if victim == nil {
			return removed, nil
		}
		g.Remove(victim)
		removed = append(removed, victim)
	}
}

// GetPredictedNumTargetLinks returns m-1, capped by the shape's Capacity
// when MaxChildren bounds it (beyond Capacity, mirrors stay unplaced).
func (d DepthLimitTreeStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	if targetMirrorCount < 1 {
		return 0
	}
	m := targetMirrorCount
	if capacity := d.variant().Capacity(); capacity >= 0 && m > capacity {
		m = capacity
	}
	return m - 1
}

// GetNumTargetLinksPerMirror returns mn's current planned degree.
func (DepthLimitTreeStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return mn.NumPlannedLinks()
}
