package strategy

import (
	"math"

	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
)

// SubstructureFactory maps a rotation tag to a zero-argument closure
// yielding a fresh strategy instance for that substructure, exactly as the
// distilled spec's "substructure factory" parameter describes it (§4.2.7).
type SubstructureFactory map[topology.StructureType]func() Strategy

// SnowflakeStrategy builds and maintains the composite structure (SPEC_FULL
// §4.2.7): a central bridge tree whose leaves anchor independently
// validating substructures drawn from Rotation.
type SnowflakeStrategy struct {
	Rotation       []topology.StructureType
	Density        float64
	BridgeDistance int
	Factory        SubstructureFactory
}

var _ Strategy = SnowflakeStrategy{}

func (SnowflakeStrategy) Kind() topology.StructureType { return topology.TypeSnowflake }
func (SnowflakeStrategy) PreferLIFORemoval() bool      { return false }

func (s SnowflakeStrategy) InitNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(mirrors) < node.MinSnowflakeBridgeMembers {
		return Result{}, ErrNoMirrors
	}
	head := g.NewMirrorNode(topology.TypeSnowflake)
	if err := head.Bind(mirrors[0]); err != nil {
		return Result{}, err
	}
	head.Node.SetHead(topology.TypeSnowflake, true)
	return s.buildFrom(g, head, mirrors[1:], p)
}

func (s SnowflakeStrategy) InitNetworkSub(g *node.Graph, anchor *node.MirrorNode, remaining []*mirror.Mirror, p BuildParams) (Result, error) {
	anchor.Node.NodeTypes.Add(topology.TypeSnowflake)
	anchor.Node.SetHead(topology.TypeSnowflake, true)
	return s.buildFrom(g, anchor, remaining, p)
}

// minMembersFor returns the smallest member count the strategy st can ever
// validate, used to size the substructure partition (SPEC_FULL §12).
func minMembersFor(st Strategy) int {
	switch v := st.(type) {
	case NConnectedStrategy:
		return v.N + 1
	case StarStrategy:
		return node.MinStarMembers
	case FullyConnectedStrategy:
		return node.MinFullyConnectedMembers
	case LineStrategy:
		return node.MinLineMembers
	case RingStrategy:
		return node.MinRingMembers
	default:
		return node.MinTreeMembers
	}
}

// computeK resolves the substructure count (§12: k = max(|rotation|,
// round(density*(N-1)/minMembersPerSubstructure))), clamped to at least 1
// and at most the number of members available to partition.
func (s SnowflakeStrategy) computeK(remaining int) int {
	minPer := 1
	for _, t := range s.Rotation {
		factory, ok := s.Factory[t]
		if !ok {
			continue
		}
		if m := minMembersFor(factory()); m > minPer {
			minPer = m
		}
	}
	k := int(math.Round(s.Density * float64(remaining) / float64(minPer)))
	if len(s.Rotation) > k {
		k = len(s.Rotation)
	}
	if k < 1 {
		k = 1
	}
	if k > remaining {
		k = remaining
	}
	return k
}

// partitionSizes splits total members into k groups per SPEC_FULL §12:
// floor(total/k) each, the first (total mod k) groups receiving one extra.
func partitionSizes(total, k int) []int {
	base := total / k
	rem := total % k
	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}

// buildFrom partitions remainingRaw across k substructures walking the
// rotation cyclically, wires each substructure's bridge chain, and builds
// the substructure itself via initNetworkSub over its share.
func (s SnowflakeStrategy) buildFrom(g *node.Graph, head *node.MirrorNode, remainingRaw []*mirror.Mirror, p BuildParams) (Result, error) {
	if len(s.Rotation) == 0 {
		return Result{}, ErrUnknownRotationType
	}
	k := s.computeK(len(remainingRaw))
	sizes := partitionSizes(len(remainingRaw), k)
	bridgeExtra := s.BridgeDistance - 1
	if bridgeExtra < 0 {
		bridgeExtra = 0
	}

	all := []*node.MirrorNode{head}
	links := make([]*mirror.Link, 0)
	offset := 0
	for i, size := range sizes {
		group := remainingRaw[offset : offset+size]
		offset += size
		t := s.Rotation[i%len(s.Rotation)]
		factory, ok := s.Factory[t]
		if !ok {
			return Result{}, ErrUnknownRotationType
		}

		intermediateCount := bridgeExtra
		if intermediateCount > size-1 {
			intermediateCount = size - 1
		}
		if intermediateCount < 0 {
			intermediateCount = 0
		}

		prev := head
		for _, m := range group[:intermediateCount] {
			mn := g.NewMirrorNode(topology.TypeSnowflake)
			if err := mn.Bind(m); err != nil {
				return Result{}, err
			}
			link, err := wireEdge(g, prev, mn, topology.TypeSnowflake, p)
			if err != nil {
				return Result{}, err
			}
			links = append(links, link)
			all = append(all, mn)
			prev = mn
		}

		rest := group[intermediateCount:]
		if len(rest) == 0 {
			continue
		}
		anchor := g.NewMirrorNode(topology.TypeSnowflake, t)
		if err := anchor.Bind(rest[0]); err != nil {
			return Result{}, err
		}
		anchor.Node.SetHead(t, true)
		bridgeLink, err := wireEdge(g, prev, anchor, topology.TypeSnowflake, p)
		if err != nil {
			return Result{}, err
		}
		links = append(links, bridgeLink)
		all = append(all, anchor)

		subStrat := factory()
		subResult, err := subStrat.InitNetworkSub(g, anchor, rest[1:], p)
		if err != nil {
			return Result{}, err
		}
		all = append(all, subResult.Nodes...)
		links = append(links, subResult.Links...)
	}

	return Result{Head: head, Nodes: all, Links: links}, nil
}

func (s SnowflakeStrategy) RestartNetwork(g *node.Graph, mirrors []*mirror.Mirror, p BuildParams) (Result, error) {
	return restart(g, mirrors, func(ms []*mirror.Mirror) (Result, error) { return s.InitNetwork(g, ms, p) })
}

// subHeadType returns the non-bridge structure type an anchor heads, if
// any.
func subHeadType(a *node.MirrorNode) (topology.StructureType, bool) {
	for _, t := range a.Node.HeadTypes() {
		if t != topology.TypeSnowflake {
			return t, true
		}
	}
	return "", false
}

// HandleAddNewMirrors routes added into the substructure with the fewest
// current members, so repeated growth spreads evenly across the rotation
// rather than always favouring the first substructure built.
func (s SnowflakeStrategy) HandleAddNewMirrors(g *node.Graph, head *node.MirrorNode, added []*mirror.Mirror, p BuildParams) (Result, error) {
	anchors := node.BridgeAnchors(g, head)
	var target *node.MirrorNode
	var targetType topology.StructureType
	best := math.MaxInt32
	for _, a := range anchors {
		t, ok := subHeadType(a)
		if !ok {
			continue
		}
		cnt := len(g.Topo.CollectStructureMembers(t, a.Node))
		if cnt < best {
			best, target, targetType = cnt, a, t
		}
	}
	if target == nil {
		return Result{}, ErrUnknownHead
	}
	factory, ok := s.Factory[targetType]
	if !ok {
		return Result{}, ErrUnknownRotationType
	}
	return factory().HandleAddNewMirrors(g, target, added, p)
}

// HandleRemoveMirrors retires members one at a time from the substructure
// with the most current members, until the whole snowflake's member count
// (bridge + every substructure) reaches targetCount.
func (s SnowflakeStrategy) HandleRemoveMirrors(g *node.Graph, head *node.MirrorNode, targetCount int, p BuildParams) ([]*node.MirrorNode, []*mirror.Link) {
	var removed []*node.MirrorNode
	var links []*mirror.Link
	for {
		total := len(g.Topo.CollectStructureMembers(topology.TypeSnowflake, head.Node))
		for _, a := range node.BridgeAnchors(g, head) {
			if t, ok := subHeadType(a); ok {
				// The anchor is already counted as a bridge member.
				total += len(g.Topo.CollectStructureMembers(t, a.Node)) - 1
			}
		}
		if total <= targetCount {
			return removed, links
		}
		anchors := node.BridgeAnchors(g, head)
		var victimAnchor *node.MirrorNode
		var victimType topology.StructureType
		best := -1
		for _, a := range anchors {
			t, ok := subHeadType(a)
			if !ok {
				continue
			}
			cnt := len(g.Topo.CollectStructureMembers(t, a.Node))
			if cnt > best {
				best, victimAnchor, victimType = cnt, a, t
			}
		}
		if victimAnchor == nil {
			return removed, links
		}
		factory, ok := s.Factory[victimType]
		if !ok {
			return removed, links
		}
		before := len(g.Topo.CollectStructureMembers(victimType, victimAnchor.Node))
		gone, goneLinks := factory().HandleRemoveMirrors(g, victimAnchor, before-1, p)
		if len(gone) == 0 {
			return removed, links
		}
		removed = append(removed, gone...)
		links = append(links, goneLinks...)
	}
}

// GetPredictedNumTargetLinks sums the bridge-chain edges and every
// substructure's predicted link count for a snowflake converged at
// targetMirrorCount total members.
func (s SnowflakeStrategy) GetPredictedNumTargetLinks(targetMirrorCount int) int {
	if targetMirrorCount < node.MinSnowflakeBridgeMembers || len(s.Rotation) == 0 {
		return 0
	}
	remaining := targetMirrorCount - 1
	k := s.computeK(remaining)
	sizes := partitionSizes(remaining, k)
	bridgeExtra := s.BridgeDistance - 1
	if bridgeExtra < 0 {
		bridgeExtra = 0
	}
	total := 0
	for i, size := range sizes {
		t := s.Rotation[i%len(s.Rotation)]
		factory, ok := s.Factory[t]
		if !ok {
			continue
		}
		intermediateCount := bridgeExtra
		if intermediateCount > size-1 {
			intermediateCount = size - 1
		}
		if intermediateCount < 0 {
			intermediateCount = 0
		}
		subMembers := size - intermediateCount
		if subMembers <= 0 {
			continue
		}
		total += intermediateCount + 1 // bridge chain edges, including the head-facing one
		total += factory().GetPredictedNumTargetLinks(subMembers)
	}
	return total
}

// GetNumTargetLinksPerMirror returns mn's current planned degree.
func (SnowflakeStrategy) GetNumTargetLinksPerMirror(g *node.Graph, mn *node.MirrorNode) int {
	return mn.NumPlannedLinks()
}
