package topology

import "github.com/rdmnet/rdmsim/id"

// ParentEdge records the single inbound edge of a Node: the parent's id and
// the subset of structure types for which that edge participates (SPEC_FULL
// §3: "each parent/child edge is implicitly tagged with the subset of types
// for which it participates").
type ParentEdge struct {
	NodeID id.ID
	Types  TypeSet
}

// ChildEdge records one outbound edge of a Node, in the order it was added.
type ChildEdge struct {
	NodeID id.ID
	Types  TypeSet
}

// Node is a vertex of the planning graph (SPEC_FULL §3). A Node may carry
// several structure-type tags simultaneously (e.g. a node that is both a
// TREE member and, via the same edge, a SNOWFLAKE bridge member).
type Node struct {
	ID        id.ID
	NodeTypes TypeSet

	// Parent is nil for a root. The head of an embedded structure keeps its
	// hosting parent here too (a snowflake anchor's parent is its bridge
	// node), on an edge that does not carry the embedded structure's own
	// type, which is how that structure's validator tells it apart.
	Parent *ParentEdge

	// ExternalParent can hold the id of a parent that lies outside this
	// graph's arena. Nothing in this module sets it.
	ExternalParent *id.ID

	// Children is the ordered sequence of outbound edges.
	Children []ChildEdge

	// headFlags maps structure type -> "I am the head of that structure".
	headFlags map[StructureType]bool
}

// NewNode constructs a Node with the given initial type memberships. It does
// not register the node in any Graph; use Graph.NewNode for that.
func NewNode(nid id.ID, types ...StructureType) *Node {
	return &Node{
		ID:        nid,
		NodeTypes: NewTypeSet(types...),
		Children:  nil,
		headFlags: make(map[StructureType]bool),
	}
}

// SetHead records whether this node is the head of the given structure type.
func (n *Node) SetHead(t StructureType, flag bool) {
	if flag {
		n.headFlags[t] = true
	} else {
		delete(n.headFlags, t)
	}
}

// IsHead reports whether this node is recorded as the head of t.
func (n *Node) IsHead(t StructureType) bool {
	return n.headFlags[t]
}

// HeadTypes returns, in deterministic order, every structure type for which
// this node is recorded as head.
func (n *Node) HeadTypes() []StructureType {
	out := make([]StructureType, 0, len(n.headFlags))
	for t, flag := range n.headFlags {
		if flag {
			out = append(out, t)
		}
	}
	set := NewTypeSet(out...)
	return set.Slice()
}

// ChildIDs returns the ids of this node's children in insertion order.
func (n *Node) ChildIDs() []id.ID {
	out := make([]id.ID, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c.NodeID)
	}
	return out
}

// HasInternalParent reports whether this node has a parent edge recorded
// inside the current structure (as opposed to an ExternalParent, or none).
func (n *Node) HasInternalParent() bool {
	return n.Parent != nil
}

// childIndex returns the index of child in n.Children, or -1.
func (n *Node) childIndex(child id.ID) int {
	for i, c := range n.Children {
		if c.NodeID == child {
			return i
		}
	}
	return -1
}
