package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine metrics.
var (
	TransliterationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "indicate_transliterations_total",
		Help: "Transliteration calls by language",
	}, []string{"language"})

	TransliterationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "indicate_transliteration_duration_seconds",
		Help:    "Transliteration call duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"language"})

	ExceptionHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "indicate_exception_hits_total",
		Help: "Words resolved from an exception tier",
	}, []string{"tier"})

	WordFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "indicate_word_failures_total",
		Help: "Words that fell back to the source text after a pipeline failure",
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "indicate_word_cache_lookups_total",
		Help: "Word cache lookups by result",
	}, []string{"result"})
)

// Learning metrics.
var (
	CorrectionBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "indicate_correction_batches_total",
		Help: "Correction batches processed by result",
	}, []string{"result"})

	LearnedEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "indicate_learned_entries_total",
		Help: "Learned exceptions written by language",
	}, []string{"language"})

	LearnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "indicate_learn_duration_seconds",
		Help:    "Duration of each correction batch including persistence",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})

	LearnedStoreSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "indicate_learned_store_size",
		Help: "Number of learned exceptions held in memory by language",
	}, []string{"language"})
)

// Database pool metrics (gauges updated periodically).
var (
	DBPoolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "indicate_db_pool_total_conns",
		Help: "Total number of connections in the pool",
	})

	DBPoolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "indicate_db_pool_idle_conns",
		Help: "Number of idle connections in the pool",
	})

	DBPoolAcquiredConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "indicate_db_pool_acquired_conns",
		Help: "Number of acquired connections in the pool",
	})

	DBPoolMaxConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "indicate_db_pool_max_conns",
		Help: "Max connections configured for the pool",
	})
)
