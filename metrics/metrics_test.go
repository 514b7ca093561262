package metrics_test

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/rdmnet/rdmsim/metrics"
	"github.com/rdmnet/rdmsim/probe"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestRefreshSetsGaugesFromSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRegistry(reg)

	snap := probe.Tick{
		At:     3,
		Target: 2,
		Mirror: []probe.MirrorSnapshot{{}, {}},
	}
	r.Refresh(snap, 1)

	require.Equal(t, float64(2), gaugeValue(t, r.MirrorsTotal))
	require.Equal(t, float64(1), gaugeValue(t, r.TargetLinksPerMirror))
}
