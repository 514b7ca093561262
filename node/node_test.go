package node_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/topology"
)

func wire(t *testing.T, g *node.Graph, typ topology.StructureType, parent, child *node.MirrorNode) {
	t.Helper()
	require.NoError(t, g.Topo.AddChild(parent.Node, child.Node, topology.NewTypeSet(typ), nil))
}

func TestTreeValidatesAndDerivesDepth(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	head := g.NewMirrorNode(topology.TypeTree)
	head.Node.SetHead(topology.TypeTree, true)
	a := g.NewMirrorNode(topology.TypeTree)
	b := g.NewMirrorNode(topology.TypeTree)
	wire(t, g, topology.TypeTree, head, a)
	wire(t, g, topology.TypeTree, a, b)

	tr := node.Tree{}
	require.NoError(t, tr.IsValidStructure(g, head))
	require.Equal(t, 0, node.TreeDepth(g, head))
	require.Equal(t, 1, node.TreeDepth(g, a))
	require.Equal(t, 2, node.TreeDepth(g, b))
	require.True(t, tr.CanBeRemovedFromStructure(g, b, head))
	require.False(t, tr.CanBeRemovedFromStructure(g, a, head), "a still has child b")
}

func TestBalancedTreeRejectsOverCapNode(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	head := g.NewMirrorNode(topology.TypeBalancedTree)
	head.Node.SetHead(topology.TypeBalancedTree, true)
	a := g.NewMirrorNode(topology.TypeBalancedTree)
	b := g.NewMirrorNode(topology.TypeBalancedTree)
	c := g.NewMirrorNode(topology.TypeBalancedTree)
	wire(t, g, topology.TypeBalancedTree, head, a)
	wire(t, g, topology.TypeBalancedTree, head, b)
	wire(t, g, topology.TypeBalancedTree, head, c)

	bt := node.BalancedTree{TargetLinksPerNode: 2}
	err := bt.IsValidStructure(g, head)
	require.ErrorIs(t, err, node.ErrInvalidStructure)
	require.False(t, bt.CanAcceptMoreChildren(g, head, head))
}

func TestDepthLimitTreeInsertionTargetPrefersLookahead(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	head := g.NewMirrorNode(topology.TypeDepthLimitTree)
	head.Node.SetHead(topology.TypeDepthLimitTree, true)
	a := g.NewMirrorNode(topology.TypeDepthLimitTree)
	wire(t, g, topology.TypeDepthLimitTree, head, a)

	dt := node.DepthLimitTree{MaxDepth: 5}
	target := dt.InsertionTarget(g, head)
	require.Equal(t, a.ID, target.ID, "a is deepest among candidates that still leave room for a grandchild")

	b := g.NewMirrorNode(topology.TypeDepthLimitTree)
	wire(t, g, topology.TypeDepthLimitTree, a, b)
	target = dt.InsertionTarget(g, head)
	require.Equal(t, b.ID, target.ID)
}

func TestDepthLimitTreeCapacity(t *testing.T) {
	dt := node.DepthLimitTree{MaxDepth: 3, MaxChildren: 3}
	require.Equal(t, 1+3+9+27, dt.Capacity())

	unlimited := node.DepthLimitTree{MaxDepth: 3}
	require.Equal(t, -1, unlimited.Capacity())
}

func TestLineEndpointsAndPosition(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	head := g.NewMirrorNode(topology.TypeLine)
	mid := g.NewMirrorNode(topology.TypeLine)
	tail := g.NewMirrorNode(topology.TypeLine)
	wire(t, g, topology.TypeLine, head, mid)
	wire(t, g, topology.TypeLine, mid, tail)

	ln := node.Line{}
	require.NoError(t, ln.IsValidStructure(g, head))
	other := node.GetOtherEndpoint(g, head)
	require.Equal(t, tail.ID, other.ID)
	require.Equal(t, 2, node.GetPositionInLine(g, tail))
	require.False(t, ln.CanBeRemovedFromStructure(g, mid, head), "middle members are never removable")
	require.True(t, ln.CanBeRemovedFromStructure(g, tail, head))
}

func TestRingWalkClosesAndValidates(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	head := g.NewMirrorNode(topology.TypeRing)
	a := g.NewMirrorNode(topology.TypeRing)
	b := g.NewMirrorNode(topology.TypeRing)
	wire(t, g, topology.TypeRing, head, a)
	wire(t, g, topology.TypeRing, a, b)
	wire(t, g, topology.TypeRing, b, head)

	r := node.Ring{}
	require.NoError(t, r.IsValidStructure(g, head))
	require.Equal(t, a.ID, node.GetNextInRing(g, head).ID)
	require.Equal(t, head.ID, node.GetNextInRing(g, b).ID)
	require.Equal(t, b.ID, node.GetPreviousInRing(g, head).ID)
}

func TestRingRejectsOpenChain(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	head := g.NewMirrorNode(topology.TypeRing)
	a := g.NewMirrorNode(topology.TypeRing)
	b := g.NewMirrorNode(topology.TypeRing)
	wire(t, g, topology.TypeRing, head, a)
	wire(t, g, topology.TypeRing, a, b)
	// Not closed back to head.

	r := node.Ring{}
	err := r.IsValidStructure(g, head)
	require.ErrorIs(t, err, node.ErrInvalidStructure)
}

func TestStarCenterAndLeafRemoval(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	center := g.NewMirrorNode(topology.TypeStar)
	l1 := g.NewMirrorNode(topology.TypeStar)
	l2 := g.NewMirrorNode(topology.TypeStar)
	l3 := g.NewMirrorNode(topology.TypeStar)
	wire(t, g, topology.TypeStar, center, l1)
	wire(t, g, topology.TypeStar, center, l2)
	wire(t, g, topology.TypeStar, center, l3)

	s := node.Star{}
	require.NoError(t, s.IsValidStructure(g, center))
	require.Equal(t, center.ID, node.Center(center).ID)
	require.False(t, s.CanAcceptMoreChildren(g, l1, center))
	require.True(t, s.CanAcceptMoreChildren(g, center, center))
	require.False(t, s.CanBeRemovedFromStructure(g, center, center))
	require.True(t, s.CanBeRemovedFromStructure(g, l1, center))
}

func TestFullyConnectedDegreeContract(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	a := g.NewMirrorNode(topology.TypeFullyConnected)
	b := g.NewMirrorNode(topology.TypeFullyConnected)
	c := g.NewMirrorNode(topology.TypeFullyConnected)
	require.NoError(t, node.ConnectPeers(g, a, b, topology.TypeFullyConnected))
	require.NoError(t, node.ConnectPeers(g, a, c, topology.TypeFullyConnected))
	require.NoError(t, node.ConnectPeers(g, b, c, topology.TypeFullyConnected))

	fc := node.FullyConnected{}
	require.NoError(t, fc.IsValidStructure(g, a))
	require.True(t, node.ArePeersConnected(a, b, topology.TypeFullyConnected))

	require.NoError(t, node.DisconnectPeers(g, b, c, topology.TypeFullyConnected))
	err := fc.IsValidStructure(g, a)
	require.ErrorIs(t, err, node.ErrInvalidStructure)
}

func TestNConnectedTargetDegreeAndDensity(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	nodes := make([]*node.MirrorNode, 5)
	for i := range nodes {
		nodes[i] = g.NewMirrorNode(topology.TypeNConnected)
	}
	nc := node.NConnected{N: 2}
	// Wire a 2-regular ring-shaped graph over 5 members (degree 2 each).
	for i := range nodes {
		require.NoError(t, node.ConnectPeers(g, nodes[i], nodes[(i+1)%len(nodes)], topology.TypeNConnected))
	}

	require.NoError(t, nc.IsValidStructure(g, nodes[0]))
	require.Equal(t, 2, nc.TargetDegree(5))
	require.InDelta(t, 0.5, nc.ConnectivityDensity(g, nodes[0]), 0.001, "5 edges out of C(5,2)=10 possible")
	require.Equal(t, 5, nc.PredictedEdgeCount(5))
}

func TestNConnectedDegenerateWhenNExceedsSize(t *testing.T) {
	nc := node.NConnected{N: 10}
	require.Equal(t, 3, nc.TargetDegree(4), "degree caps at m-1 when n exceeds network size")
}

func TestMirrorNodeBindIsImmutable(t *testing.T) {
	ids := id.NewSource()
	g := node.NewGraph(ids)
	mn := g.NewMirrorNode(topology.TypeTree)
	props := mirror.Props{StartupTimeMin: 1, StartupTimeMax: 1, ReadyTimeMin: 1, ReadyTimeMax: 1, StopTimeMin: 1, StopTimeMax: 1}
	m, err := mirror.New(ids.Next(), 0, props, nil)
	require.NoError(t, err)

	require.NoError(t, mn.Bind(m))
	require.Equal(t, 0, mn.NumImplementedLinks())

	other, err := mirror.New(ids.Next(), 0, props, nil)
	require.NoError(t, err)
	require.ErrorIs(t, mn.Bind(other), node.ErrAlreadyBound)
}

func TestSnowflakeValidatesBridgeAndSubstructures(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	bridgeHead := g.NewMirrorNode(topology.TypeSnowflake)

	anchor1 := g.NewMirrorNode(topology.TypeSnowflake, topology.TypeStar)
	anchor1.Node.SetHead(topology.TypeStar, true)
	wire(t, g, topology.TypeSnowflake, bridgeHead, anchor1)
	s1a := g.NewMirrorNode(topology.TypeStar)
	s1b := g.NewMirrorNode(topology.TypeStar)
	wire(t, g, topology.TypeStar, anchor1, s1a)
	wire(t, g, topology.TypeStar, anchor1, s1b)
	s1c := g.NewMirrorNode(topology.TypeStar)
	wire(t, g, topology.TypeStar, anchor1, s1c)

	anchor2 := g.NewMirrorNode(topology.TypeSnowflake, topology.TypeFullyConnected)
	anchor2.Node.SetHead(topology.TypeFullyConnected, true)
	wire(t, g, topology.TypeSnowflake, bridgeHead, anchor2)
	fc1 := g.NewMirrorNode(topology.TypeFullyConnected)
	require.NoError(t, node.ConnectPeers(g, anchor2, fc1, topology.TypeFullyConnected))

	sf := node.Snowflake{
		SubstructureByAnchor: map[id.ID]node.Variant{
			anchor1.ID: node.Star{},
			anchor2.ID: node.FullyConnected{},
		},
	}
	require.NoError(t, sf.IsValidStructure(g, bridgeHead))

	anchors := node.BridgeAnchors(g, bridgeHead)
	require.Len(t, anchors, 2)
}

func TestSnowflakeRejectsUnregisteredAnchor(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	bridgeHead := g.NewMirrorNode(topology.TypeSnowflake)
	anchor := g.NewMirrorNode(topology.TypeSnowflake, topology.TypeStar)
	anchor.Node.SetHead(topology.TypeStar, true)
	wire(t, g, topology.TypeSnowflake, bridgeHead, anchor)

	sf := node.Snowflake{}
	err := sf.IsValidStructure(g, bridgeHead)
	require.ErrorIs(t, err, node.ErrInvalidStructure)
}

func TestGraphRemoveCascadesAndIsIdempotent(t *testing.T) {
	g := node.NewGraph(id.NewSource())
	head := g.NewMirrorNode(topology.TypeStar)
	leaf := g.NewMirrorNode(topology.TypeStar)
	wire(t, g, topology.TypeStar, head, leaf)

	g.Remove(leaf)
	_, ok := g.Get(leaf.ID)
	require.False(t, ok)
	require.Empty(t, head.Node.ChildIDs())

	// Idempotent (P6): removing again must not panic.
	g.Remove(leaf)
}
