package node

import (
	"fmt"
	"math"

	"github.com/rdmnet/rdmsim/topology"
)

// DefaultBalanceTolerance is the default ceiling on the balance metric
// (standard deviation of per-depth member counts) below which a balanced
// tree is considered IsBalanced.
const DefaultBalanceTolerance = 1.0

// BalancedTree implements the balanced-tree specialization (SPEC_FULL
// §4.2.1): a Tree with a per-node child cap (TargetLinksPerNode) and a
// balance metric computed from the depth distribution.
type BalancedTree struct {
	TargetLinksPerNode int
	Tolerance          float64
}

var _ Variant = BalancedTree{}

// DeriveTypeID returns TypeBalancedTree.
func (BalancedTree) DeriveTypeID() topology.StructureType { return topology.TypeBalancedTree }

// IsValidStructure validates the base tree invariant plus the per-node
// child cap.
func (b BalancedTree) IsValidStructure(g *Graph, head *MirrorNode) error {
	if err := validateTree(g, topology.TypeBalancedTree, head); err != nil {
		return err
	}
	ms := members(g, topology.TypeBalancedTree, head)
	for _, m := range ms {
		if count := childCount(m, topology.TypeBalancedTree); count > b.TargetLinksPerNode {
			return fmt.Errorf("balancedtree: node %d has %d children, target is %d: %w", m.ID, count, b.TargetLinksPerNode, ErrInvalidStructure)
		}
	}
	return nil
}

// CanAcceptMoreChildren reports true while n's in-structure child count is
// below TargetLinksPerNode.
func (b BalancedTree) CanAcceptMoreChildren(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return childCount(n, topology.TypeBalancedTree) < b.TargetLinksPerNode
}

// CanBeRemovedFromStructure delegates to the base tree removal rule: leaves
// are removable, the head only when it is the sole remaining member.
func (b BalancedTree) CanBeRemovedFromStructure(g *Graph, n *MirrorNode, head *MirrorNode) bool {
	return canRemoveTreeMember(g, topology.TypeBalancedTree, n, head)
}

func childCount(n *MirrorNode, t topology.StructureType) int {
	count := 0
	for _, c := range n.Node.Children {
		if c.Types.Has(t) {
			count++
		}
	}
	return count
}

// BalanceMetric returns the standard deviation of member count per depth
// level for the balanced tree rooted at head.
func BalanceMetric(g *Graph, head *MirrorNode) float64 {
	ms := members(g, topology.TypeBalancedTree, head)
	byDepth := map[int]int{}
	maxDepth := 0
	for _, m := range ms {
		d := g.Topo.Depth(m.Node, topology.TypeBalancedTree)
		byDepth[d]++
		if d > maxDepth {
			maxDepth = d
		}
	}
	counts := make([]float64, 0, maxDepth+1)
	for d := 0; d <= maxDepth; d++ {
		counts = append(counts, float64(byDepth[d]))
	}
	return stddev(counts)
}

// IsBalanced reports whether the balance metric is at or below tolerance
// (DefaultBalanceTolerance if tolerance <= 0).
func IsBalanced(g *Graph, head *MirrorNode, tolerance float64) bool {
	if tolerance <= 0 {
		tolerance = DefaultBalanceTolerance
	}
	return BalanceMetric(g, head) <= tolerance
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)))
}

// InsertionTarget picks the shallowest member whose in-structure child count
// is below TargetLinksPerNode, breaking ties by fewer children (SPEC_FULL
// §4.2.1 insertion policy). It returns nil if no member has capacity.
func (b BalancedTree) InsertionTarget(g *Graph, head *MirrorNode) *MirrorNode {
	ms := members(g, topology.TypeBalancedTree, head)
	var best *MirrorNode
	bestDepth, bestChildren := math.MaxInt32, math.MaxInt32
	for _, m := range ms {
		if !b.CanAcceptMoreChildren(g, m, head) {
			continue
		}
		d := g.Topo.Depth(m.Node, topology.TypeBalancedTree)
		c := childCount(m, topology.TypeBalancedTree)
		if d < bestDepth || (d == bestDepth && c < bestChildren) {
			best, bestDepth, bestChildren = m, d, c
		}
	}
	return best
}
