package strategy_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/node"
	"github.com/rdmnet/rdmsim/strategy"
	"github.com/rdmnet/rdmsim/topology"
)

func newMirrors(t *testing.T, ids *id.Source, n int) []*mirror.Mirror {
	t.Helper()
	props := mirror.Props{StartupTimeMin: 1, StartupTimeMax: 1, ReadyTimeMin: 1, ReadyTimeMax: 1, StopTimeMin: 1, StopTimeMax: 1, LinkActivationTimeMin: 1, LinkActivationTimeMax: 1}
	out := make([]*mirror.Mirror, 0, n)
	for i := 0; i < n; i++ {
		m, err := mirror.New(ids.Next(), 0, props, nil)
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func buildParams(ids *id.Source) strategy.BuildParams {
	return strategy.BuildParams{
		IDs:   ids,
		Props: mirror.Props{StartupTimeMin: 1, StartupTimeMax: 1, ReadyTimeMin: 1, ReadyTimeMax: 1, StopTimeMin: 1, StopTimeMax: 1, LinkActivationTimeMin: 1, LinkActivationTimeMax: 1},
		Now:   0,
	}
}

func TestTreeStrategyInitAndGrow(t *testing.T) {
	ids := id.NewSource()
	g := node.NewGraph(ids)
	p := buildParams(ids)
	ts := strategy.TreeStrategy{}

	res, err := ts.InitNetwork(g, newMirrors(t, ids, 6), p)
	require.NoError(t, err)
	require.NoError(t, node.Tree{}.IsValidStructure(g, res.Head))
	require.Equal(t, ts.GetPredictedNumTargetLinks(6), len(res.Links))

	grown, err := ts.HandleAddNewMirrors(g, res.Head, newMirrors(t, ids, 2), p)
	require.NoError(t, err)
	require.Len(t, grown.Nodes, 2)
	require.NoError(t, node.Tree{}.IsValidStructure(g, res.Head))

	removedNodes, _ := ts.HandleRemoveMirrors(g, res.Head, 6, p)
	require.Len(t, removedNodes, 2)
	require.NoError(t, node.Tree{}.IsValidStructure(g, res.Head))
}

func TestRingStrategyInitGrowShrink(t *testing.T) {
	ids := id.NewSource()
	g := node.NewGraph(ids)
	p := buildParams(ids)
	rs := strategy.RingStrategy{}

	res, err := rs.InitNetwork(g, newMirrors(t, ids, 5), p)
	require.NoError(t, err)
	require.NoError(t, node.Ring{}.IsValidStructure(g, res.Head))
	require.Equal(t, 5, rs.GetPredictedNumTargetLinks(5))
	require.Equal(t, 5, len(res.Links))

	grown, err := rs.HandleAddNewMirrors(g, res.Head, newMirrors(t, ids, 2), p)
	require.NoError(t, err)
	require.Len(t, grown.Nodes, 2)
	require.NoError(t, node.Ring{}.IsValidStructure(g, res.Head))

	removed, spliced := rs.HandleRemoveMirrors(g, res.Head, 5, p)
	require.Len(t, removed, 2)
	require.Len(t, spliced, 2, "each splice must materialise its own Link, not just a planning-graph edge")
	for _, l := range spliced {
		srcNode, ok := g.FindByMirror(l.Source().ID())
		require.True(t, ok)
		require.Zero(t, srcNode.NumPendingLinks(), "spliced predecessor must have no unimplemented planned links")
	}
	require.NoError(t, node.Ring{}.IsValidStructure(g, res.Head))
}

func TestStarStrategyCenterFixed(t *testing.T) {
	ids := id.NewSource()
	g := node.NewGraph(ids)
	p := buildParams(ids)
	ss := strategy.StarStrategy{}

	res, err := ss.InitNetwork(g, newMirrors(t, ids, 4), p)
	require.NoError(t, err)
	require.NoError(t, node.Star{}.IsValidStructure(g, res.Head))

	grown, err := ss.HandleAddNewMirrors(g, res.Head, newMirrors(t, ids, 3), p)
	require.NoError(t, err)
	require.Len(t, grown.Links, 3)
	for _, l := range grown.Links {
		require.Equal(t, res.Head.Mirror, l.Source())
	}
}

func TestNConnectedDegreeConverges(t *testing.T) {
	ids := id.NewSource()
	g := node.NewGraph(ids)
	p := buildParams(ids)
	ns := strategy.NConnectedStrategy{N: 3}

	res, err := ns.InitNetwork(g, newMirrors(t, ids, 8), p)
	require.NoError(t, err)
	require.NoError(t, node.NConnected{N: 3}.IsValidStructure(g, res.Head))
	require.Equal(t, ns.GetPredictedNumTargetLinks(8), len(res.Links))
}

func TestFullyConnectedIsComplete(t *testing.T) {
	ids := id.NewSource()
	g := node.NewGraph(ids)
	p := buildParams(ids)
	fc := strategy.FullyConnectedStrategy{}

	res, err := fc.InitNetwork(g, newMirrors(t, ids, 5), p)
	require.NoError(t, err)
	require.NoError(t, node.FullyConnected{}.IsValidStructure(g, res.Head))
	require.Equal(t, 10, len(res.Links))
	require.Equal(t, 10, fc.GetPredictedNumTargetLinks(5))
}

func TestSnowflakeRotationBuildsIndependentSubstructures(t *testing.T) {
	ids := id.NewSource()
	g := node.NewGraph(ids)
	p := buildParams(ids)

	factory := strategy.SubstructureFactory{
		topology.TypeStar:           func() strategy.Strategy { return strategy.StarStrategy{} },
		topology.TypeFullyConnected: func() strategy.Strategy { return strategy.FullyConnectedStrategy{} },
	}
	sf := strategy.SnowflakeStrategy{
		Rotation:       []topology.StructureType{topology.TypeStar, topology.TypeFullyConnected},
		Density:        0.3,
		BridgeDistance: 2,
		Factory:        factory,
	}

	res, err := sf.InitNetwork(g, newMirrors(t, ids, 16), p)
	require.NoError(t, err)

	subVariants := map[id.ID]node.Variant{}
	for _, a := range node.BridgeAnchors(g, res.Head) {
		for _, ht := range a.Node.HeadTypes() {
			switch ht {
			case topology.TypeStar:
				subVariants[a.ID] = node.Star{}
			case topology.TypeFullyConnected:
				subVariants[a.ID] = node.FullyConnected{}
			}
		}
	}
	require.NotEmpty(t, subVariants)
	sw := node.Snowflake{BridgeDistance: sf.BridgeDistance, SubstructureByAnchor: subVariants}
	require.NoError(t, sw.IsValidStructure(g, res.Head))
}

func TestPredictedLinksStableAcrossRecomputation(t *testing.T) {
	rs := strategy.RingStrategy{}

	first := strategy.Predict(rs, 9)
	second := strategy.Predict(rs, 9)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("prediction for the same strategy and member count should be stable (-first +second):\n%s", diff)
	}

	grown := strategy.Predict(rs, 12)
	if diff := cmp.Diff(first, grown); diff == "" {
		t.Fatalf("prediction should change when targetMirrorCount changes, got identical snapshots")
	}
}
