package embeddings

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// generationDuration tracks embedding generation latency by model
	// and operation (embed_documents, embed_query).
	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsmatch",
			Subsystem: "embeddings",
			Name:      "generation_duration_seconds",
			Help:      "Duration of embedding generation in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"model", "operation"},
	)

	// batchSize tracks the number of texts per embedding batch.
	batchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsmatch",
			Subsystem: "embeddings",
			Name:      "batch_size",
			Help:      "Number of texts per embedding batch request",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		},
		[]string{"model", "operation"},
	)

	// generationErrors counts embedding generation errors.
	generationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsmatch",
			Subsystem: "embeddings",
			Name:      "errors_total",
			Help:      "Total embedding generation errors by model and operation",
		},
		[]string{"model", "operation"},
	)

	// cacheEvents counts cache decorator hits and misses.
	cacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsmatch",
			Subsystem: "embeddings",
			Name:      "cache_events_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"},
	)
)

// recordGeneration records embedding generation metrics.
func recordGeneration(model, operation string, duration time.Duration, batch int, err error) {
	generationDuration.WithLabelValues(model, operation).Observe(duration.Seconds())
	if batch > 0 {
		batchSize.WithLabelValues(model, operation).Observe(float64(batch))
	}
	if err != nil {
		generationErrors.WithLabelValues(model, operation).Inc()
	}
}

// recordCacheEvent records a cache hit or miss.
func recordCacheEvent(hit bool) {
	if hit {
		cacheEvents.WithLabelValues("hit").Inc()
	} else {
		cacheEvents.WithLabelValues("miss").Inc()
	}
}
