package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks page cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ozon_page_cache_hits_total",
			Help: "Total number of analytics page cache hits",
		},
	)

	// CacheMisses tracks page cache misses, including expired entries
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ozon_page_cache_misses_total",
			Help: "Total number of analytics page cache misses",
		},
	)

	// CacheBytesWritten tracks the volume of page data stored
	CacheBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ozon_page_cache_written_bytes_total",
			Help: "Total bytes of analytics pages written to the cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ozon_page_cache_errors_total",
			Help: "Total number of page cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
