package strategy

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
	"github.com/rdmnet/rdmsim/treebuild"
)

// LineStrategy builds and maintains a simple chain (SPEC_FULL §4.2.2).
type LineStrategy struct{}

var _ Strategy = LineStrategy{}

func (LineStrategy) Kind() topology.StructureType { return topology.TypeLine }
func (LineStrategy) PreferLIFORemoval() bool      { return false }

func (l LineStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) == 0 {
		return Result{}, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeLine)
	if err != nil {
		return Result{}, err
	}
	head := nodes[0]
	return l.buildFrom(g, head, nodes[1:], p)
}

func (l LineStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	members, err := bindAll(g, remaining, topology.TypeLine)
	if err != nil {
		return Result{}, err
	}
	return l.buildFrom(g, anchor, members, p)
}

func (l LineStrategy) buildFrom(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, p BuildParams) (Result, error) {
	placements := treebuild.Chain(g, anchor, members, topology.TypeLine)
	links := make([]*mirror.Link, 0, len(placements))
	for _, pl := range placements {
		link, err := wireEdge(g, pl.Parent, pl.Node, topology.TypeLine, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
	}
	all := append([]*node.MirrorNode{anchor}, members...)
	return Result{Head: anchor, Nodes: all, Links: links}, nil
}

func (l LineStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return l.InitNetwork(g, ms, p) })
}

// HandleAddNewMirrors extends the chain at its free tail endpoint, one
// mirror at a time (a line only ever has one open slot).
func (l LineStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	nodes, err := bindAll(g, added, topology.TypeLine)
	if err != nil {
		return Result{}, err
	}
	links := make([]*mirror.Link, 0, len(nodes))
	tail := node.GetOtherEndpoint(g, head)
	for _, mn := range nodes {
		link, err := wireEdge(g, tail, mn, topology.TypeLine, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
		tail = mn
	}
	return Result{Head: head, Nodes: nodes, Links: links}, nil
}

// HandleRemoveMirrors retires the tail endpoint repeatedly (removing the
// head would require re-anchoring the whole chain, so the tail side is
// always preferred); it stops once only 2 members remain, per
// node.Line.CanBeRemovedFromStructure (SPEC_FULL §4.4 step 4(b): "endpoints
// last for line, because removing a middle breaks the line" — here there
// is never a middle candidate, only the tail).
func (l LineStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	ln := node.Line{}
	var removed []*node.MirrorNode
	for {
		ms := g.Topo.CollectStructureMembers(topology.TypeLine, head.Node)
		if len(ms) <= targetCount {
			return removed, nil
		}
		tail := node.GetOtherEndpoint(g, head)
		if tail.ID == head.ID || !ln.CanBeRemovedFromStructure(g, tail, head) {
			return removed, nil
		}
		g.Remove(tail)
		removed = append(removed, tail)
	}
}

// GetPredictedNumTargetLinks returns m-1 for m >= 1, else 0.
func (LineStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	if targetMirrorCount < 1 {
		return 0
	}
	return targetMirrorCount - 1
}

// GetNumTargetLinksPerMirror returns mn's current planned degree (1 for an
// endpoint, 2 for any interior member).
func (LineStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return mn.NumPlannedLinks()
}
