package mirror_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/id"
	"github.com/rdmnet/rdmsim/mirror"
)

func testProps() mirror.Props {
	return mirror.Props{
		StartupTimeMin: 1, StartupTimeMax: 1,
		ReadyTimeMin: 1, ReadyTimeMax: 1,
		StopTimeMin: 1, StopTimeMax: 1,
		LinkActivationTimeMin: 2, LinkActivationTimeMax: 2,
	}
}

func TestMirrorLifecycle(t *testing.T) {
	ids := id.NewSource()
	m, err := mirror.New(ids.Next(), 0, testProps(), nil)
	require.NoError(t, err)
	require.Equal(t, mirror.Down, m.GetState())

	m.Advance(1)
	require.Equal(t, mirror.Starting, m.GetState())

	m.Advance(2) // startupT=1 -> decrements to 0
	require.Equal(t, mirror.Starting, m.GetState())
	m.Advance(3) // startupT==0 -> Up
	require.Equal(t, mirror.Up, m.GetState())

	m.Advance(4) // readyT=1 -> decrements
	require.Equal(t, mirror.Up, m.GetState())
	m.Advance(5)
	require.Equal(t, mirror.Ready, m.GetState())

	// Ready persists until Shutdown.
	m.Advance(6)
	require.Equal(t, mirror.Ready, m.GetState())

	m.Shutdown()
	require.Equal(t, mirror.Stopping, m.GetState())
	m.Advance(7)
	m.Advance(8)
	require.Equal(t, mirror.Stopped, m.GetState())
}

func TestMirrorInvalidDelayBounds(t *testing.T) {
	ids := id.NewSource()
	props := testProps()
	props.StartupTimeMin = 5
	props.StartupTimeMax = 1
	_, err := mirror.New(ids.Next(), 0, props, nil)
	require.ErrorIs(t, err, mirror.ErrInvalidDelayBounds)
}

func TestLinkLifecycleAndRemoval(t *testing.T) {
	ids := id.NewSource()
	props := testProps()
	a, err := mirror.New(ids.Next(), 0, props, nil)
	require.NoError(t, err)
	b, err := mirror.New(ids.Next(), 0, props, nil)
	require.NoError(t, err)

	link, err := mirror.NewLink(ids.Next(), a, b, 0, props, nil)
	require.NoError(t, err)
	require.True(t, a.IsLinkedWith(b))
	require.True(t, b.IsLinkedWith(a))
	require.Equal(t, mirror.Pending, link.GetState())

	link.Advance(1)
	require.Equal(t, mirror.Pending, link.GetState())
	link.Advance(2)
	require.Equal(t, mirror.Active, link.GetState())

	link.Close()
	require.Equal(t, mirror.Closed, link.GetState())
	require.False(t, a.IsLinkedWith(b))

	// Idempotent close.
	link.Close()
	require.Equal(t, mirror.Closed, link.GetState())
}

func TestLinkRejectsSelfLink(t *testing.T) {
	ids := id.NewSource()
	props := testProps()
	a, err := mirror.New(ids.Next(), 0, props, nil)
	require.NoError(t, err)

	_, err = mirror.NewLink(ids.Next(), a, a, 0, props, nil)
	require.ErrorIs(t, err, mirror.ErrSelfLink)
}
