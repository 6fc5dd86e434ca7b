package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	SearchesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_searches_total",
			Help: "Total number of handled search requests.",
		},
	)
	FetchDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "jobs_source_fetch_duration_seconds",
			Help:       "Duration of each source board fetch in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"source"},
	)
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobs_search_duration_seconds",
			Help:    "End-to-end duration of each search in seconds.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60},
		},
	)
	ListingsCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_listings_cache_hits_total",
			Help: "Total number of board fetches served from the listings cache.",
		},
	)
	GeocodeCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "jobs_geocode_cache_hits_total",
			Help: "Total number of geocode lookups served from the cache.",
		},
	)
)

func Register() {
	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(SearchesCounter)
	prometheus.MustRegister(FetchDuration)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ListingsCacheHits)
	prometheus.MustRegister(GeocodeCacheHits)
}
