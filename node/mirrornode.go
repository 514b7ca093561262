package node

import (
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/topology"
)

// MirrorNode is a StructureNode bound, optionally, to a Mirror (SPEC_FULL
// §3). It exposes the derived link-count quantities the reconciliation
// engine and the probes read every tick.
type MirrorNode struct {
	*topology.Node
	Mirror *mirror.Mirror
}

// newMirrorNode wraps n with no Mirror bound yet.
func newMirrorNode(n *topology.Node) *MirrorNode {
	return &MirrorNode{Node: n}
}

// Bind attaches m to this node. The binding is immutable once set
// (SPEC_FULL §3 MirrorNode lifecycle): binding an already-bound node returns
// ErrAlreadyBound.
func (mn *MirrorNode) Bind(m *mirror.Mirror) error {
	if mn.Mirror != nil {
		return ErrAlreadyBound
	}
	mn.Mirror = m
	return nil
}

// NumPlannedLinks returns the count of typed edges incident at this node in
// the planning graph: its children plus, if present, its parent edge.
func (mn *MirrorNode) NumPlannedLinks() int {
	n := len(mn.Node.Children)
	if mn.Node.Parent != nil {
		n++
	}
	return n
}

// NumImplementedLinks returns the size of this node's bound Mirror's
// attached-link set, or 0 if unbound.
func (mn *MirrorNode) NumImplementedLinks() int {
	if mn.Mirror == nil {
		return 0
	}
	return len(mn.Mirror.GetLinks())
}

// NumPendingLinks returns max(0, planned-implemented).
func (mn *MirrorNode) NumPendingLinks() int {
	p := mn.NumPlannedLinks() - mn.NumImplementedLinks()
	if p < 0 {
		return 0
	}
	return p
}
