package node

import (
	"fmt"

	"github.com/rdmnet/rdmsim/topology"
)

// MinNConnectedDegree is the smallest allowed degree parameter (SPEC_FULL §9
// open question resolution: n >= 2; n = 1 is a tree, which has its own
// strategy).
const MinNConnectedDegree = 2

// NConnected implements the n-regular graph invariant: every member has
// in-structure degree min(n, |members|-1). Like FullyConnected, adjacency is
// symmetric (see ConnectPeers) rather than hierarchical.
type NConnected struct {
	N int
}

var _ Variant = NConnected{}

// DeriveTypeID returns TypeNConnected.
func (NConnected) DeriveTypeID() topology.StructureType { return topology.TypeNConnected }

// TargetDegree returns the degree every member should have given the
// current member count.
func (nc NConnected) TargetDegree(memberCount int) int {
	if memberCount-1 < nc.N {
		return memberCount - 1
	}
	return nc.N
}

// IsValidStructure validates that every member's degree equals
// TargetDegree(len(members)).
func (nc NConnected) IsValidStructure(g *Graph, head *MirrorNode) error {
	ms := members(g, topology.TypeNConnected, head)
	if len(ms) < MinNConnectedDegree+1 {
		return fmt.Errorf("nconnected: head %d has %d members, need >= %d: %w", head.ID, len(ms), MinNConnectedDegree+1, ErrTooFewMembers)
	}
	want := nc.TargetDegree(len(ms))
	for _, m := range ms {
		if c := childCount(m, topology.TypeNConnected); c != want {
			return fmt.Errorf("nconnected: node %d has degree %d, want %d: %w", m.ID, c, want, ErrInvalidStructure)
		}
	}
	return nil
}

// CanAcceptMoreChildren reports true while n's degree is below the current
// target degree.
func (nc NConnected) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	memberCount := len(members(g, topology.TypeNConnected, head))
	return childCount(n, topology.TypeNConnected) < nc.TargetDegree(memberCount)
}

// CanBeRemovedFromStructure reports true only while |members| > N, so the
// n-regularity remains satisfiable after removal.
func (nc NConnected) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return len(members(g, topology.TypeNConnected, head)) > nc.N
}

// ConnectivityDensity returns the ratio of implemented structure edges to
// the maximum possible edges for the current member count, in [0,1].
func (nc NConnected) ConnectivityDensity(g *Graph, head *MirrorNode) float64 {
	ms := members(g, topology.TypeNConnected, head)
	m := len(ms)
	if m < 2 {
		return 0
	}
	edges := 0
	for _, node := range ms {
		edges += childCount(node, topology.TypeNConnected)
	}
	edges /= 2
	maxEdges := m * (m - 1) / 2
	if maxEdges == 0 {
		return 0
	}
	return float64(edges) / float64(maxEdges)
}

// PredictedEdgeCount returns the exact realised edge count once the
// structure has converged at the given member count (SPEC_FULL §4.3).
func (nc NConnected) PredictedEdgeCount(memberCount int) int {
	if memberCount < 2 {
		return 0
	}
	return memberCount * nc.TargetDegree(memberCount) / 2
}
