package strategy

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
)

// NConnectedStrategy builds and maintains an n-regular graph (SPEC_FULL
// §4.2.5 / §9 open question resolution): every member targets degree
// min(N, |members|-1).
type NConnectedStrategy struct {
	N int
}

var _ Strategy = NConnectedStrategy{}

func (NConnectedStrategy) Kind() topology.StructureType { return topology.TypeNConnected }
func (NConnectedStrategy) PreferLIFORemoval() bool      { return false }

func (nc NConnectedStrategy) variant() node.NConnected { return node.NConnected{N: nc.N} }

func (nc NConnectedStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) < node.MinNConnectedDegree+1 {
		return Result{}, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeNConnected)
	if err != nil {
		return Result{}, err
	}
	return nc.buildFrom(g, nodes[0], nodes[1:], p)
}

func (nc NConnectedStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	members, err := bindAll(g, remaining, topology.TypeNConnected)
	if err != nil {
		return Result{}, err
	}
	return nc.buildFrom(g, anchor, members, p)
}

// buildFrom wires a circulant graph: every member connects to its next
// TargetDegree/2 neighbours around an ascending-id ring, and an odd
// TargetDegree adds one diametric pairing per member. The result has
// floor(memberCount*TargetDegree/2) edges. Every member ends at exactly
// TargetDegree unless both memberCount and TargetDegree are odd; then the
// last member has no diametric partner and stays one below it.
func (nc NConnectedStrategy) buildFrom(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, p BuildParams) (Result, error) {
	all := append([]*node.MirrorNode{anchor}, members...)
	m := len(all)
	target := nc.variant().TargetDegree(m)
	links := make([]*mirror.Link, 0)
	for i := 0; i < m; i++ {
		for k := 1; k <= target/2; k++ {
			j := (i + k) % m
			if node.ArePeersConnected(all[i], all[j], topology.TypeNConnected) {
				continue
			}
			link, err := wirePeerEdge(g, all[i], all[j], topology.TypeNConnected, p)
			if err != nil {
				return Result{}, err
			}
			links = append(links, link)
		}
	}
	if target%2 == 1 {
		// Odd target degree: pair each node with its diametrically
		// opposite neighbour to pick up the remaining slot (with odd m,
		// all[m-1] is left unpaired).
		half := m / 2
		for i := 0; i < half; i++ {
			j := (i + half) % m
			if node.ArePeersConnected(all[i], all[j], topology.TypeNConnected) {
				continue
			}
			link, err := wirePeerEdge(g, all[i], all[j], topology.TypeNConnected, p)
			if err != nil {
				return Result{}, err
			}
			links = append(links, link)
		}
	}
	return Result{Head: anchor, Nodes: all, Links: links}, nil
}

func (nc NConnectedStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return nc.InitNetwork(g, ms, p) })
}

// HandleAddNewMirrors binds each new mirror, then connects every member
// (old and new) up to its recomputed target degree, preferring the
// lowest-degree peers first so the result stays as close to regular as
// possible without disturbing already-satisfied pairs.
func (nc NConnectedStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	nodes, err := bindAll(g, added, topology.TypeNConnected)
	if err != nil {
		return Result{}, err
	}
	v := nc.variant()
	links := make([]*mirror.Link, 0)
	for _, mn := range nodes {
		all := g.Topo.CollectStructureMembers(topology.TypeNConnected, head.Node)
		target := v.TargetDegree(len(all) + 1)
		for _, n := range all {
			peer, ok := g.Get(n.ID)
			if !ok || node.ArePeersConnected(mn, peer, topology.TypeNConnected) {
				continue
			}
			if childCountGE(mn, target) {
				break
			}
			link, err := wirePeerEdge(g, mn, peer, topology.TypeNConnected, p)
			if err != nil {
				return Result{}, err
			}
			links = append(links, link)
		}
	}
	return Result{Head: head, Nodes: nodes, Links: links}, nil
}

func childCountGE(mn *node.MirrorNode, target int) bool {
	return mn.NumPlannedLinks() >= target
}

// HandleRemoveMirrors retires members until targetCount is reached.
// Removing a member drops its edges, which brings its former neighbours'
// degree down by one each; since TargetDegree only shrinks as membership
// shrinks, this never leaves a neighbour above target, only at or below
// it, and the next HandleAddNewMirrors call (or a full restart) is what
// brings a below-target survivor back up.
func (nc NConnectedStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	v := nc.variant()
	var removed []*node.MirrorNode
	for {
		ms := g.Topo.CollectStructureMembers(topology.TypeNConnected, head.Node)
		if len(ms) <= targetCount {
			return removed, nil
		}
		var victim *node.MirrorNode
		for _, n := range ms {
			mn, ok := g.Get(n.ID)
			if !ok || mn.ID == head.ID {
				continue
			}
			if v.CanBeRemovedFromStructure(g, mn, head) {
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

// GetPredictedNumTargetLinks returns the n-regular edge count
// m*TargetDegree(m)/2.
func (nc NConnectedStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	return nc.variant().PredictedEdgeCount(targetMirrorCount)
}

// GetNumTargetLinksPerMirror returns mn's current planned degree.
func (NConnectedStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return mn.NumPlannedLinks()
}
