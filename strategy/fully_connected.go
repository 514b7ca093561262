package strategy

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
)

// FullyConnectedStrategy builds and maintains a complete graph (SPEC_FULL
// §4.2.5): every pair of members is directly connected.
type FullyConnectedStrategy struct{}

var _ Strategy = FullyConnectedStrategy{}

func (FullyConnectedStrategy) Kind() topology.StructureType { return topology.TypeFullyConnected }
func (FullyConnectedStrategy) PreferLIFORemoval() bool      { return false }

func (f FullyConnectedStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) < node.MinFullyConnectedMembers {
		return Result{}, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeFullyConnected)
	if err != nil {
		return Result{}, err
	}
	return f.buildFrom(g, nodes[0], nodes[1:], p)
}

func (f FullyConnectedStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	members, err := bindAll(g, remaining, topology.TypeFullyConnected)
	if err != nil {
		return Result{}, err
	}
	return f.buildFrom(g, anchor, members, p)
}

// buildFrom connects anchor and every member, then every member to every
// other member already placed, so the final adjacency is complete.
func (f FullyConnectedStrategy) buildFrom(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, p BuildParams) (Result, error) {
	all := append([]*node.MirrorNode{anchor}, members...)
	links := make([]*mirror.Link, 0, len(all)*(len(all)-1)/2)
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			link, err := wirePeerEdge(g, all[i], all[j], topology.TypeFullyConnected, p)
			if err != nil {
				return Result{}, err
			}
			links = append(links, link)
		}
	}
	return Result{Head: anchor, Nodes: all, Links: links}, nil
}

func (f FullyConnectedStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return f.InitNetwork(g, ms, p) })
}

// HandleAddNewMirrors connects each new mirror to every existing member,
// including the other new mirrors placed in the same call.
func (f FullyConnectedStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	nodes, err := bindAll(g, added, topology.TypeFullyConnected)
	if err != nil {
		return Result{}, err
	}
	existing := g.Topo.CollectStructureMembers(topology.TypeFullyConnected, head.Node)
	links := make([]*mirror.Link, 0)
	for _, mn := range nodes {
		for _, n := range existing {
			peer, ok := g.Get(n.ID)
			if !ok {
				continue
			}
			link, err := wirePeerEdge(g, mn, peer, topology.TypeFullyConnected, p)
			if err != nil {
				return Result{}, err
			}
			links = append(links, link)
		}
		for _, other := range nodes {
			if other.ID == mn.ID || node.ArePeersConnected(mn, other, topology.TypeFullyConnected) {
				continue
			}
			link, err := wirePeerEdge(g, mn, other, topology.TypeFullyConnected, p)
			if err != nil {
				return Result{}, err
			}
			links = append(links, link)
		}
		existing = append(existing, mn.Node)
	}
	return Result{Head: head, Nodes: nodes, Links: links}, nil
}

// HandleRemoveMirrors retires arbitrary non-head members until targetCount
// is reached (removal always keeps the remainder complete, since every
// surviving pair was already directly connected).
func (f FullyConnectedStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	fc := node.FullyConnected{}
	var removed []*node.MirrorNode
	for {
		ms := g.Topo.CollectStructureMembers(topology.TypeFullyConnected, head.Node)
		if len(ms) <= targetCount {
			return removed, nil
		}
		var victim *node.MirrorNode
		for _, n := range ms {
			mn, ok := g.Get(n.ID)
			if !ok || mn.ID == head.ID {
				continue
			}
			if fc.CanBeRemovedFromStructure(g, mn, head) {
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

// GetPredictedNumTargetLinks returns the complete-graph edge count
// m*(m-1)/2.
func (FullyConnectedStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	if targetMirrorCount < node.MinFullyConnectedMembers {
		return 0
	}
	return targetMirrorCount * (targetMirrorCount - 1) / 2
}

// GetNumTargetLinksPerMirror is always len(members)-1 for any member.
func (FullyConnectedStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return mn.NumPlannedLinks()
}
