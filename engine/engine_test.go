package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/engine"
	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/strategy"
)

func testProps() mirror.Props {
	return mirror.Props{
		StartupTimeMin: 1, StartupTimeMax: 1,
		ReadyTimeMin: 1, ReadyTimeMax: 1,
		StopTimeMin: 1, StopTimeMax: 1,
		LinkActivationTimeMin: 1, LinkActivationTimeMax: 1,
	}
}

func TestEngineGrowsToTarget(t *testing.T) {
	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.TreeStrategy{}, Props: testProps()})
	require.NoError(t, e.SetTargetMirrorCount(5))

	require.NoError(t, e.Step(1))
	require.Equal(t, 5, e.Graph().Len())
	require.NotNil(t, e.Head())
}

func TestEngineShrinksToTarget(t *testing.T) {
	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.TreeStrategy{}, Props: testProps()})
	require.NoError(t, e.SetTargetMirrorCount(6))
	require.NoError(t, e.Step(1))
	require.Equal(t, 6, e.Graph().Len())

	require.NoError(t, e.SetTargetMirrorCount(3))
	require.NoError(t, e.Step(2))
	require.Equal(t, 3, e.Graph().Len())
}

func TestEngineRingShrinkConvergesWithSplicedLink(t *testing.T) {
	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.RingStrategy{}, Props: testProps()})
	require.NoError(t, e.SetTargetMirrorCount(6))
	require.NoError(t, e.Step(1))

	require.NoError(t, e.SetTargetMirrorCount(5))
	require.Equal(t, 5, e.Target())
	require.NoError(t, e.Step(2))
	require.Equal(t, 5, e.Graph().Len())

	for tick := 3; tick <= 6; tick++ {
		require.NoError(t, e.Step(tick))
	}

	for _, mn := range e.Graph().All() {
		require.Zero(t, mn.NumPendingLinks(), "every surviving ring member must end up with an implemented splice, not just a planned one")
	}
}

func TestEngineSwitchesStrategyViaRestart(t *testing.T) {
	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.TreeStrategy{}, Props: testProps()})
	require.NoError(t, e.SetTargetMirrorCount(5))
	require.NoError(t, e.Step(1))

	e.SetStrategy(strategy.StarStrategy{})
	require.NoError(t, e.Step(2))
	require.Equal(t, strategy.StarStrategy{}.Kind(), e.ActiveStrategy().Kind())
	require.Equal(t, 5, e.Graph().Len())
}

func TestEngineAdvancesMirrorsAndLinks(t *testing.T) {
	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.TreeStrategy{}, Props: testProps()})
	require.NoError(t, e.SetTargetMirrorCount(4))
	require.NoError(t, e.Step(1))

	for _, m := range e.Pool() {
		require.Equal(t, mirror.Starting, m.GetState())
	}

	require.NoError(t, e.Step(2))
	for _, m := range e.Pool() {
		require.Equal(t, mirror.Starting, m.GetState())
	}

	require.NoError(t, e.Step(3))
	for _, m := range e.Pool() {
		require.Equal(t, mirror.Up, m.GetState())
	}
}
