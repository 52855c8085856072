package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups counts cache reads per resource and outcome (hit|miss|error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ehome_cache_lookups_total",
			Help: "Total number of cache lookups",
		},
		[]string{"resource", "outcome"},
	)

	// CacheWriteFailures counts cache population failures that were swallowed.
	CacheWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ehome_cache_write_failures_total",
			Help: "Total number of failed cache writes",
		},
		[]string{"resource"},
	)

	// StoreLatency measures relational store reads issued on cache misses.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ehome_store_query_seconds",
			Help:    "Relational store query latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ehome_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
