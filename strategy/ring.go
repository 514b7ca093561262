package strategy

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
	"github.com/rdmnet/rdmsim/treebuild"
)

// RingStrategy builds and maintains a closed directed chain (SPEC_FULL
// §4.2.3), via the canonical-walk abstraction node.Ring implements.
type RingStrategy struct{}

var _ Strategy = RingStrategy{}

func (RingStrategy) Kind() topology.StructureType { return topology.TypeRing }
func (RingStrategy) PreferLIFORemoval() bool      { return false }

func (r RingStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) < node.MinRingMembers {
		return Result{}, ErrNoMirrors
	}
	nodes, err := bindAll(g, mirrors, topology.TypeRing)
	if err != nil {
		return Result{}, err
	}
	return r.buildFrom(g, nodes[0], nodes[1:], p)
}

func (r RingStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	members, err := bindAll(g, remaining, topology.TypeRing)
	if err != nil {
		return Result{}, err
	}
	return r.buildFrom(g, anchor, members, p)
}

// buildFrom wires anchor through members as an open chain and then closes
// the loop with a final edge from the last member back to anchor.
func (r RingStrategy) buildFrom(g *node.Graph, anchor *node.MirrorNode, members []*node.MirrorNode, p BuildParams) (Result, error) {
	placements := treebuild.Chain(g, anchor, members, topology.TypeRing)
	links := make([]*mirror.Link, 0, len(placements)+1)
	for _, pl := range placements {
		link, err := wireEdge(g, pl.Parent, pl.Node, topology.TypeRing, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
	}
	all := append([]*node.MirrorNode{anchor}, members...)
	tail := all[len(all)-1]
	closeLink, err := wireEdge(g, tail, anchor, topology.TypeRing, p)
	if err != nil {
		return Result{}, err
	}
	links = append(links, closeLink)
	return Result{Head: anchor, Nodes: all, Links: links}, nil
}

func (r RingStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return r.InitNetwork(g, ms, p) })
}

// HandleAddNewMirrors opens the ring at its closing edge (head's former
// predecessor) and threads the new mirrors in before re-closing, so every
// existing adjacency except the single opened edge survives (SPEC_FULL
// §4.4 scenario: growing a ring preserves the walk).
func (r RingStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	nodes, err := bindAll(g, added, topology.TypeRing)
	if err != nil {
		return Result{}, err
	}
	if len(nodes) == 0 {
		return Result{Head: head}, nil
	}
	tail := node.GetPreviousInRing(g, head)
	if tail == nil {
		return Result{}, ErrUnknownHead
	}
	if err := g.Topo.RemoveChild(tail.Node, head.Node, topology.NewTypeSet(topology.TypeRing)); err != nil {
		return Result{}, err
	}
	if tail.Mirror != nil {
		for _, l := range tail.Mirror.GetLinks() {
			if l.Other(tail.Mirror) == head.Mirror {
				l.Close()
			}
		}
	}
	links := make([]*mirror.Link, 0, len(nodes)+1)
	cur := tail
	for _, mn := range nodes {
		link, err := wireEdge(g, cur, mn, topology.TypeRing, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, link)
		cur = mn
	}
	closeLink, err := wireEdge(g, cur, head, topology.TypeRing, p)
	if err != nil {
		return Result{}, err
	}
	links = append(links, closeLink)
	return Result{Head: head, Nodes: nodes, Links: links}, nil
}

// HandleRemoveMirrors splices a departing member out of the walk, wiring
// its predecessor directly to its successor and materialising the
// corresponding Link (every other edge in this package goes through
// wireEdge; the splice is no exception, or pred/succ would carry a planned
// edge with no implementing Link and never converge), until targetCount is
// reached or node.Ring.CanBeRemovedFromStructure refuses further shrinkage.
func (r RingStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	rg := node.Ring{}
	var removed []*node.MirrorNode
	var links []*mirror.Link
	for {
		ms := g.Topo.CollectStructureMembers(topology.TypeRing, head.Node)
		if len(ms) <= targetCount {
			return removed, links
		}
		var victimNode *topology.Node
		for _, m := range ms {
			if m.ID == head.Node.ID {
				continue
			}
			victimNode = m
			break
		}
		if victimNode == nil {
			return removed, links
		}
		victim, ok := g.Get(victimNode.ID)
		if !ok || !rg.CanBeRemovedFromStructure(g, victim, head) {
			return removed, links
		}
		pred := node.GetPreviousInRing(g, victim)
		succ := node.GetNextInRing(g, victim)
		if pred == nil || succ == nil {
			return removed, links
		}
		g.Remove(victim)
		link, err := wireEdge(g, pred, succ, topology.TypeRing, p)
		if err != nil {
			return removed, links
		}
		removed = append(removed, victim)
		links = append(links, link)
	}
}

// GetPredictedNumTargetLinks returns m edges for an m-member ring (m >= 3),
// else 0.
func (RingStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	if targetMirrorCount < node.MinRingMembers {
		return 0
	}
	return targetMirrorCount
}

// GetNumTargetLinksPerMirror is always 2 for a closed ring.
func (RingStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return 2
}
