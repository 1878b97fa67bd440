package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer (memory, redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecal_cache_hits_total",
			Help: "Total number of rate-calendar cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratecal_cache_misses_total",
			Help: "Total number of rate-calendar cache misses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecal_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	// cacheEntries tracks the number of live entries by layer
	cacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ratecal_cache_entries",
			Help: "Current number of cached rate-calendar pages",
		},
		[]string{"layer"},
	)
)
