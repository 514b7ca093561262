// Package metrics registers and refreshes the Prometheus gauges the
// distilled spec's probes additionally expose (SPEC_FULL §11):
// rdmsim_mirrors_total, rdmsim_mirrors_ready, rdmsim_links_total,
// rdmsim_links_active, and rdmsim_target_links_per_mirror, refreshed at
// tick boundaries the same point probe.Prober snapshots are taken.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rdmnet/rdmsim/mirror"
	"github.com/rdmnet/rdmsim/probe"
)

// Registry holds the simulator's Prometheus gauges.
type Registry struct {
	MirrorsTotal         prometheus.Gauge
	MirrorsReady         prometheus.Gauge
	LinksTotal           prometheus.Gauge
	LinksActive          prometheus.Gauge
	TargetLinksPerMirror prometheus.Gauge
}

// NewRegistry constructs a Registry and registers every gauge against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		MirrorsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdmsim_mirrors_total",
			Help: "Current count of mirrors present in the planning graph.",
		}),
		MirrorsReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdmsim_mirrors_ready",
			Help: "Current count of mirrors in the Ready lifecycle state.",
		}),
		LinksTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdmsim_links_total",
			Help: "Current count of links tracked by the engine, excluding closed links.",
		}),
		LinksActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdmsim_links_active",
			Help: "Current count of links in the Active lifecycle state.",
		}),
		TargetLinksPerMirror: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdmsim_target_links_per_mirror",
			Help: "The active strategy's currently intended per-mirror link degree.",
		}),
	}
	reg.MustRegister(r.MirrorsTotal, r.MirrorsReady, r.LinksTotal, r.LinksActive, r.TargetLinksPerMirror)
	return r
}

// Refresh sets every gauge from snap and the active strategy's current
// per-mirror target degree.
func (r *Registry) Refresh(snap probe.Tick, targetLinksPerMirror int) {
	r.MirrorsTotal.Set(float64(len(snap.Mirror)))
	r.MirrorsReady.Set(float64(snap.ReadyMirrors()))
	r.LinksTotal.Set(float64(len(snap.Link)))

	active := 0
	for _, l := range snap.Link {
		if l.State == mirror.Active {
			active++
		}
	}
	r.LinksActive.Set(float64(active))
	r.TargetLinksPerMirror.Set(float64(targetLinksPerMirror))
}
