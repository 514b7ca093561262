package effector_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/effector"
	"github.com/rdmnet/rdmsim/engine"
	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/strategy"
)

func TestApplyOrdersBySubmissionWithinATick(t *testing.T) {
	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.TreeStrategy{}, Props: mirror.Props{
		StartupTimeMin: 1, StartupTimeMax: 1, ReadyTimeMin: 1, ReadyTimeMax: 1,
		StopTimeMin: 1, StopTimeMax: 1, LinkActivationTimeMin: 1, LinkActivationTimeMax: 1,
	}})

	eff := effector.New()
	// Both scheduled for tick 5; count submitted first, so the strategy
	// switch at tick 5 must see the mirror count set at tick 5.
	eff.ScheduleSetMirrors(7, 5)
	eff.ScheduleSetStrategy(strategy.StarStrategy{}, 5)

	require.NoError(t, eff.Apply(e, 5))
	require.NoError(t, e.Step(5))
	require.Equal(t, 7, e.Graph().Len())
	require.Equal(t, strategy.StarStrategy{}.Kind(), e.ActiveStrategy().Kind())
}

func TestApplyLeavesFutureActionsQueued(t *testing.T) {
	eff := effector.New()
	eff.ScheduleSetMirrors(3, 1)
	eff.ScheduleSetMirrors(10, 100)

	ids := id.NewSource()
	e := engine.New(engine.Config{IDs: ids, Strategy: strategy.TreeStrategy{}, Props: mirror.Props{
		StartupTimeMin: 1, StartupTimeMax: 1, ReadyTimeMin: 1, ReadyTimeMax: 1,
		StopTimeMin: 1, StopTimeMax: 1, LinkActivationTimeMin: 1, LinkActivationTimeMax: 1,
	}})
	require.NoError(t, eff.Apply(e, 1))
	require.Len(t, eff.Pending(), 1)
}
