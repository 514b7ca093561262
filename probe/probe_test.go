package probe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/engine"
	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/probe"
	"github.com/rdmnet/rdmsim/strategy"
)

func TestProberSnapshotsMirrorsAndLinks(t *testing.T) {
	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.TreeStrategy{}, Props: mirror.Props{
		StartupTimeMin: 0, StartupTimeMax: 0, ReadyTimeMin: 0, ReadyTimeMax: 0,
		StopTimeMin: 0, StopTimeMax: 0, LinkActivationTimeMin: 0, LinkActivationTimeMax: 0,
	}})
	require.NoError(t, e.SetTargetMirrorCount(4))
	require.NoError(t, e.Step(1))

	p := probe.New(e, 3)
	snap := p.RecordTick(1, 4)
	require.Len(t, snap.Mirror, 4)
	require.Len(t, snap.Link, 3)
}

func TestHistoryRingBufferWraps(t *testing.T) {
	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.TreeStrategy{}, Props: mirror.Props{
		StartupTimeMin: 0, StartupTimeMax: 0, ReadyTimeMin: 0, ReadyTimeMax: 0,
		StopTimeMin: 0, StopTimeMax: 0, LinkActivationTimeMin: 0, LinkActivationTimeMax: 0,
	}})
	require.NoError(t, e.SetTargetMirrorCount(3))

	p := probe.New(e, 2)
	for tick := 1; tick <= 5; tick++ {
		require.NoError(t, e.Step(tick))
		p.RecordTick(tick, 3)
	}
	hist := p.History()
	require.Len(t, hist, 2)
	require.Equal(t, 4, hist[0].At)
	require.Equal(t, 5, hist[1].At)
}
