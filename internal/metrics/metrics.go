package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climata_provider_calls_total",
			Help: "Total external provider HTTP calls",
		},
		[]string{"provider", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "climata_provider_latency_seconds",
			Help:    "Provider HTTP call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climata_cache_lookups_total",
			Help: "Request cache lookups by result",
		},
		[]string{"result"},
	)

	CacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "climata_cache_evictions_total",
			Help: "Entries evicted from the request cache by the capacity bound",
		},
	)

	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climata_analyses_total",
			Help: "Completed analysis runs by outcome",
		},
		[]string{"outcome"},
	)

	ObservationsFlagged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "climata_observations_flagged_total",
			Help: "Provider readings dropped by sanity checks",
		},
		[]string{"flag"},
	)
)
