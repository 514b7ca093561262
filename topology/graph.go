package topology

import (
	"fmt"

	"github.com/rdmnet/rdmsim/id"
)

// Graph is the planning substrate shared by every typed node variant and
// strategy: an arena of Nodes addressed by id, plus the operations that
// maintain the invariants in SPEC_FULL §4.1 (N1-N3).
type Graph struct {
	ids   *id.Source
	nodes *id.Arena[Node]
}

// NewGraph returns an empty planning graph drawing ids from src.
func NewGraph(src *id.Source) *Graph {
	return &Graph{ids: src, nodes: id.NewArena[Node]()}
}

// NewNode allocates a fresh Node with the given initial type memberships,
// registers it in the graph's arena, and returns it.
func (g *Graph) NewNode(types ...StructureType) *Node {
	n := NewNode(g.ids.Next(), types...)
	g.nodes.Put(n.ID, n)
	return n
}

// Get returns the node stored under nid, if any.
func (g *Graph) Get(nid id.ID) (*Node, bool) {
	return g.nodes.Get(nid)
}

// Len returns the number of nodes currently in the graph.
func (g *Graph) Len() int { return g.nodes.Len() }

// Nodes returns every node in ascending-id (insertion-stable) order.
func (g *Graph) Nodes() []*Node { return g.nodes.Values() }

// AddChild attaches child under parent, tagging the edge with types. If
// child already has a parent edge (internal or external) for one of the
// requested types, that type is left on its prior edge and ErrAlreadyParented
// is returned for it; types not already claimed are still wired. headIDs
// optionally records, per type, which node id is that type's head (useful so
// SetHead can be driven from the same call as AddChild).
//
// Complexity: O(len(parent.Children)); the existing-edge lookup scans
// parent's children in order.
func (g *Graph) AddChild(parent, child *Node, types TypeSet, headIDs map[StructureType]id.ID) error {
	if parent == nil || child == nil {
		return ErrNilNode
	}

	conflict := false
	toAttach := types.Clone()
	if child.Parent != nil && child.Parent.NodeID != parent.ID {
		for t := range child.Parent.Types {
			if toAttach.Has(t) {
				toAttach.Remove(t)
				conflict = true
			}
		}
	}

	if idx := parent.childIndex(child.ID); idx >= 0 {
		parent.Children[idx].Types.Union(toAttach)
	} else if !toAttach.Empty() {
		parent.Children = append(parent.Children, ChildEdge{NodeID: child.ID, Types: toAttach.Clone()})
	}

	if child.Parent == nil {
		child.Parent = &ParentEdge{NodeID: parent.ID, Types: toAttach.Clone()}
	} else if child.Parent.NodeID == parent.ID {
		child.Parent.Types.Union(toAttach)
	}

	for t, headID := range headIDs {
		if head, ok := g.Get(headID); ok {
			head.SetHead(t, true)
		}
	}

	if conflict {
		return fmt.Errorf("AddChild(child=%d already parented for requested type): %w", child.ID, ErrAlreadyParented)
	}
	return nil
}

// RemoveChild drops the edge between parent and child for the given types.
// If the child's edge set becomes empty the edge is physically removed and
// the child's Parent reference is cleared. Removing types that are not
// present is a no-op for those types (idempotent, consistent with P6).
func (g *Graph) RemoveChild(parent, child *Node, types TypeSet) error {
	if parent == nil || child == nil {
		return ErrNilNode
	}
	idx := parent.childIndex(child.ID)
	if idx < 0 {
		return nil
	}
	parent.Children[idx].Types.Subtract(types)
	if parent.Children[idx].Types.Empty() {
		parent.Children = append(parent.Children[:idx], parent.Children[idx+1:]...)
	}
	if child.Parent != nil && child.Parent.NodeID == parent.ID {
		child.Parent.Types.Subtract(types)
		if child.Parent.Types.Empty() {
			child.Parent = nil
		}
	}
	return nil
}

// Remove deletes n from the graph entirely: every parent/child edge incident
// at n is detached from the other endpoint, and n's own slot in the arena is
// freed. Removing an unknown node is a no-op (P6).
func (g *Graph) Remove(n *Node) {
	if n == nil {
		return
	}
	if n.Parent != nil {
		if p, ok := g.Get(n.Parent.NodeID); ok {
			_ = g.RemoveChild(p, n, n.Parent.Types.Clone())
		}
	}
	for _, c := range append([]ChildEdge(nil), n.Children...) {
		if child, ok := g.Get(c.NodeID); ok {
			types := c.Types.Clone()
			_ = g.RemoveChild(n, child, types)
			_ = g.RemoveChild(child, n, types) // symmetric peer entry, if any
		}
	}
	g.nodes.Delete(n.ID)
}

// CollectStructureMembers traverses the planning graph from start following
// only edges tagged with t, returning every reachable node (including start)
// whose NodeTypes contains t. Traversal stops descending past a node that is
// the head of another instance of t (so nested substructures of the same
// type stay separate, per SPEC_FULL §4.1). Order is deterministic:
// breadth-first in child-insertion order.
func (g *Graph) CollectStructureMembers(t StructureType, start *Node) []*Node {
	if start == nil || !start.NodeTypes.Has(t) {
		return nil
	}

	visited := map[id.ID]bool{start.ID: true}
	queue := []*Node{start}
	order := []*Node{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, c := range cur.Children {
			if !c.Types.Has(t) || visited[c.NodeID] {
				continue
			}
			child, ok := g.Get(c.NodeID)
			if !ok || !child.NodeTypes.Has(t) {
				continue
			}
			visited[c.NodeID] = true
			order = append(order, child)
			// Stop descending through a nested head of the same type,
			// unless it is the start node itself.
			if child.IsHead(t) && child.ID != start.ID {
				continue
			}
			queue = append(queue, child)
		}
	}
	return order
}

// Depth returns the number of t-tagged edges from n up to the head of t
// (inclusive count of 0 for the head itself). Depth is always derived from
// the current planning graph, never from a stored field (SPEC_FULL §9 open
// question resolution). Returns -1 if n is not reachable to a head of t
// within maxWalk steps (guards against malformed graphs).
func (g *Graph) Depth(n *Node, t StructureType) int {
	const maxWalk = 1 << 20
	depth := 0
	cur := n
	for cur != nil {
		if cur.IsHead(t) {
			return depth
		}
		if cur.Parent == nil || !cur.Parent.Types.Has(t) {
			return depth
		}
		parent, ok := g.Get(cur.Parent.NodeID)
		if !ok {
			return depth
		}
		cur = parent
		depth++
		if depth > maxWalk {
			return -1
		}
	}
	return depth
}
