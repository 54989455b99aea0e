package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchTotal counts finished searches by outcome.
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladder_search_total",
		Help: "Total searches by outcome",
	}, []string{"outcome"}) // "found", "exhausted", "timeout", "aborted"

	// searchSteps tracks the number of frontier pops per search.
	searchSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ladder_search_steps",
		Help:    "Frontier expansions per search",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1 to 8192
	})

	// searchDuration tracks wall-clock time per search.
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ladder_search_duration_seconds",
		Help:    "Search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
	})

	// frontierPeak tracks the largest frontier seen per search.
	frontierPeak = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ladder_search_frontier_peak",
		Help:    "Peak frontier size per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	// retrievalSkipped counts lookups that failed and were treated as empty.
	retrievalSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ladder_search_retrieval_skipped_total",
		Help: "Link lookups that failed and were treated as having no links",
	})
)
