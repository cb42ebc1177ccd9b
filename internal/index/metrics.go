package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/meridianads/newsmatch/internal/corpus"
)

var (
	// buildsTotal counts index build attempts by result.
	buildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsmatch",
			Subsystem: "index",
			Name:      "builds_total",
			Help:      "Total index build attempts by result",
		},
		[]string{"result"},
	)

	// searchesTotal counts search operations by result.
	searchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsmatch",
			Subsystem: "index",
			Name:      "searches_total",
			Help:      "Total search operations by result",
		},
		[]string{"result"},
	)

	// searchDuration tracks end-to-end search latency, including the
	// query embedding.
	searchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsmatch",
			Subsystem: "index",
			Name:      "search_duration_seconds",
			Help:      "Duration of search operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// corpusSize tracks the number of indexed records by kind.
	corpusSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "newsmatch",
			Subsystem: "index",
			Name:      "corpus_size",
			Help:      "Number of indexed records by kind",
		},
		[]string{"kind"},
	)
)

// observeCorpusSize refreshes the corpus size gauges after a build or load.
func observeCorpusSize(records []corpus.Record) {
	counts := map[corpus.Kind]int{
		corpus.KindLandingPage: 0,
		corpus.KindNewsArticle: 0,
	}
	for _, r := range records {
		counts[r.Kind]++
	}
	for kind, n := range counts {
		corpusSize.WithLabelValues(string(kind)).Set(float64(n))
	}
}
