// Package metrics exposes the process's Prometheus gauges and counters.
// Observability is ambient to every spec.md component, not required by
// any of its invariants (SPEC_FULL.md §5): the teacher carries
// prometheus/client_golang as a direct dependency, so this server does
// too.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups every counter/gauge the server updates.
type Metrics struct {
	ClicksIngested           prometheus.Counter
	OwnershipUpdates         prometheus.Counter
	BroadcastSubscribersDrop prometheus.Counter
	HotIndexTilesOwned       prometheus.Gauge
}

// New registers and returns the server's metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ClicksIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clicks_ingested_total",
			Help: "Total clicks accepted by the Click Service.",
		}),
		OwnershipUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ownership_updates_total",
			Help: "Total tile ownership changes applied by the Ownership Update Service.",
		}),
		BroadcastSubscribersDrop: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "broadcast_subscribers_dropped_total",
			Help: "Total subscribers torn down for lagging a broadcast bus.",
		}),
		HotIndexTilesOwned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hotindex_tiles_owned",
			Help: "Current count of tiles with an owner in the Hot Ownership Index.",
		}),
	}
	reg.MustRegister(m.ClicksIngested, m.OwnershipUpdates, m.BroadcastSubscribersDrop, m.HotIndexTilesOwned)
	return m
}
