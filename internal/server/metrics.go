package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the server's Prometheus instruments on a private registry so
// multiple servers can coexist in one process.
type metrics struct {
	registry        *prometheus.Registry
	runsTotal       *prometheus.CounterVec
	cutsApplied     prometheus.Counter
	cutsFailed      prometheus.Counter
	requestDuration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jlcut_runs_total",
			Help: "Processing runs by terminal status.",
		}, []string{"status"}),
		cutsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jlcut_cuts_applied_total",
			Help: "Boundary edits applied across all runs.",
		}),
		cutsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jlcut_cuts_failed_total",
			Help: "Boundary edits rejected across all runs.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jlcut_request_duration_seconds",
			Help:    "HTTP request latency by handler.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.runsTotal,
		m.cutsApplied,
		m.cutsFailed,
		m.requestDuration,
	)
	return m
}
