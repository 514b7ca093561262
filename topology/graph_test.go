package topology_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/topology"
)

func TestAddChildMaintainsBidirectionalInvariant(t *testing.T) {
	g := topology.NewGraph(id.NewSource())
	root := g.NewNode(topology.TypeTree)
	child := g.NewNode(topology.TypeTree)

	err := g.AddChild(root, child, topology.NewTypeSet(topology.TypeTree), nil)
	require.NoError(t, err)

	require.Equal(t, []id.ID{child.ID}, root.ChildIDs())
	require.NotNil(t, child.Parent)
	require.Equal(t, root.ID, child.Parent.NodeID)
}

func TestRemoveChildClearsEdgeWhenTypesExhausted(t *testing.T) {
	g := topology.NewGraph(id.NewSource())
	root := g.NewNode(topology.TypeTree, topology.TypeStar)
	child := g.NewNode(topology.TypeTree, topology.TypeStar)

	require.NoError(t, g.AddChild(root, child, topology.NewTypeSet(topology.TypeTree, topology.TypeStar), nil))
	require.NoError(t, g.RemoveChild(root, child, topology.NewTypeSet(topology.TypeTree)))

	// Star edge remains.
	require.Len(t, root.ChildIDs(), 1)
	require.True(t, child.Parent.Types.Has(topology.TypeStar))
	require.False(t, child.Parent.Types.Has(topology.TypeTree))

	require.NoError(t, g.RemoveChild(root, child, topology.NewTypeSet(topology.TypeStar)))
	require.Empty(t, root.ChildIDs())
	require.Nil(t, child.Parent)
}

func TestCollectStructureMembersStopsAtNestedHead(t *testing.T) {
	g := topology.NewGraph(id.NewSource())
	head := g.NewNode(topology.TypeTree)
	head.SetHead(topology.TypeTree, true)
	mid := g.NewNode(topology.TypeTree)
	nestedHead := g.NewNode(topology.TypeTree)
	nestedHead.SetHead(topology.TypeTree, true)
	leaf := g.NewNode(topology.TypeTree)

	require.NoError(t, g.AddChild(head, mid, topology.NewTypeSet(topology.TypeTree), nil))
	require.NoError(t, g.AddChild(mid, nestedHead, topology.NewTypeSet(topology.TypeTree), nil))
	require.NoError(t, g.AddChild(nestedHead, leaf, topology.NewTypeSet(topology.TypeTree), nil))

	members := g.CollectStructureMembers(topology.TypeTree, head)
	ids := map[id.ID]bool{}
	for _, m := range members {
		ids[m.ID] = true
	}
	require.True(t, ids[head.ID])
	require.True(t, ids[mid.ID])
	require.True(t, ids[nestedHead.ID])
	require.False(t, ids[leaf.ID], "traversal must not descend past a nested head of the same type")
}

func TestDepthIsDerivedFromGraphNotStoredField(t *testing.T) {
	g := topology.NewGraph(id.NewSource())
	head := g.NewNode(topology.TypeBalancedTree)
	head.SetHead(topology.TypeBalancedTree, true)
	a := g.NewNode(topology.TypeBalancedTree)
	b := g.NewNode(topology.TypeBalancedTree)

	require.NoError(t, g.AddChild(head, a, topology.NewTypeSet(topology.TypeBalancedTree), nil))
	require.NoError(t, g.AddChild(a, b, topology.NewTypeSet(topology.TypeBalancedTree), nil))

	require.Equal(t, 0, g.Depth(head, topology.TypeBalancedTree))
	require.Equal(t, 1, g.Depth(a, topology.TypeBalancedTree))
	require.Equal(t, 2, g.Depth(b, topology.TypeBalancedTree))

	// Re-parent b directly under head; depth must reflect the new graph shape.
	require.NoError(t, g.RemoveChild(a, b, topology.NewTypeSet(topology.TypeBalancedTree)))
	require.NoError(t, g.AddChild(head, b, topology.NewTypeSet(topology.TypeBalancedTree), nil))
	require.Equal(t, 1, g.Depth(b, topology.TypeBalancedTree))
}

func TestRemoveCascadesEdges(t *testing.T) {
	g := topology.NewGraph(id.NewSource())
	root := g.NewNode(topology.TypeStar)
	leaf := g.NewNode(topology.TypeStar)
	require.NoError(t, g.AddChild(root, leaf, topology.NewTypeSet(topology.TypeStar), nil))

	g.Remove(leaf)
	require.Empty(t, root.ChildIDs())
	_, ok := g.Get(leaf.ID)
	require.False(t, ok)

	// Idempotent: removing again is a no-op, not a panic.
	g.Remove(leaf)
}
