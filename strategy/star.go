package strategy

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
)

// StarStrategy builds and maintains a Star (SPEC_FULL §4.2.4): one center,
// every other member a direct leaf.
type StarStrategy struct{}

var _ Strategy = StarStrategy{}

func (StarStrategy) Kind() topology.StructureType { return topology.TypeStar }
func (StarStrategy) PreferLIFORemoval() bool      { return false }

func (s StarStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) < node.MinStarMembers {
		return Result{}, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeStar)
	if err != nil {
		return Result{}, err
	}
	return s.buildFrom(g, nodes[0], nodes[1:], p)
}

func (s StarStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	members, err := bindAll(g, remaining, topology.TypeStar)
	if err != nil {
		return Result{}, err
	}
	return s.buildFrom(g, anchor, members, p)
}

func (s StarStrategy) buildFrom(g *node.Graph, center *node.MirrorNode, members []*node.MirrorNode, p BuildParams) (Result, error) {
	links := make([]*mirror.Link, 0, len(members))
	for _, mn := range members {
		link, err := wireEdge(g, center, mn, topology.TypeStar, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
	}
	all := append([]*node.MirrorNode{center}, members...)
	return Result{Head: center, Nodes: all, Links: links}, nil
}

func (s StarStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return s.InitNetwork(g, ms, p) })
}

// HandleAddNewMirrors attaches every new mirror directly to the center.
func (s StarStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	nodes, err := bindAll(g, added, topology.TypeStar)
	if err != nil {
		return Result{}, err
	}
	links := make([]*mirror.Link, 0, len(nodes))
	for _, mn := range nodes {
		link, err := wireEdge(g, head, mn, topology.TypeStar, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
	}
	return Result{Head: head, Nodes: nodes, Links: links}, nil
}

// HandleRemoveMirrors retires leaves until targetCount is reached or only
// the center and one leaf remain (node.Star.CanBeRemovedFromStructure).
func (s StarStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	st := node.Star{}
	var removed []*node.MirrorNode
	for {
		ms := g.Topo.CollectStructureMembers(topology.TypeStar, head.Node)
		if len(ms) <= targetCount {
			return removed, nil
		}
		var victim *node.MirrorNode
		for _, n := range ms {
			mn, ok := g.Get(n.ID)
			if !ok || mn.ID == head.ID {
				continue
			}
			if st.CanBeRemovedFromStructure(g, mn, head) {
				victim = mn
				break
			}
		}
		if victim == nil {
			return removed, nil
		}
		g.Remove(victim)
		removed = append(removed, victim)
	}
}

// GetPredictedNumTargetLinks returns m-1 for m >= 1, else 0.
func (StarStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	if targetMirrorCount < 1 {
		return 0
	}
	return targetMirrorCount - 1
}

// GetNumTargetLinksPerMirror returns mn's current planned degree: the
// center's is len(members)-1, every leaf's is 1.
func (StarStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return mn.NumPlannedLinks()
}
