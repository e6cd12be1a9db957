// Package metrics holds the Prometheus collectors for the vesting service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector the service reports.
type Metrics struct {
	registry *prometheus.Registry

	// BatchesTotal counts batch submissions by result ("ok", "empty", "error").
	BatchesTotal *prometheus.CounterVec

	// StreamsCreatedTotal counts committed streams.
	StreamsCreatedTotal prometheus.Counter

	// RowsRejectedTotal counts rejected rows by error kind.
	RowsRejectedTotal *prometheus.CounterVec

	// ClaimsTotal counts claim attempts by result (ok or an error kind).
	ClaimsTotal *prometheus.CounterVec

	// RPCDuration observes RPC latency by procedure and Connect code.
	RPCDuration *prometheus.HistogramVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vesting",
			Name:      "batches_total",
			Help:      "Stream batch submissions by result.",
		}, []string{"result"}),
		StreamsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vesting",
			Name:      "streams_created_total",
			Help:      "Streams committed to the ledger.",
		}),
		RowsRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vesting",
			Name:      "rows_rejected_total",
			Help:      "Input rows rejected during validation by error kind.",
		}, []string{"kind"}),
		ClaimsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vesting",
			Name:      "claims_total",
			Help:      "Claim attempts by result.",
		}, []string{"result"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vesting",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}

	m.registry.MustRegister(
		m.BatchesTotal,
		m.StreamsCreatedTotal,
		m.RowsRejectedTotal,
		m.ClaimsTotal,
		m.RPCDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
