package links

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// fetchTotal counts page fetches by result ("ok" or "error").
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladder_link_fetch_total",
		Help: "Total page fetches by result",
	}, []string{"result"})

	// fetchDuration tracks successful page fetch latency.
	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ladder_link_fetch_duration_seconds",
		Help:    "Page fetch duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
	})

	// cacheLookups counts memo lookups by outcome ("hit", "miss" or "coalesced").
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladder_link_cache_lookups_total",
		Help: "Total link memo lookups by outcome",
	}, []string{"outcome"})
)
