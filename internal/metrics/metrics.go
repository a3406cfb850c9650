package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Embedding Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"embedder", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"embedder"},
	)

	EmbeddedTextsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "embedded_texts_total",
			Help:      "Total number of texts sent for embedding",
		},
		[]string{"embedder"},
	)
)

// Session Prometheus metrics.
var (
	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "uploads_total",
			Help:      "Document uploads by format and outcome",
		},
		[]string{"format", "outcome"}, // outcome: loaded, unsupported, decode_error, no_pairs, error
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "queries_total",
			Help:      "Queries by outcome",
		},
		[]string{"outcome"}, // answered, empty, no_document, error
	)

	IndexSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docqa",
			Name:      "index_size",
			Help:      "Number of Q&A pairs in the current index",
		},
	)
)

var registerOnce sync.Once

// Register registers all docqa collectors with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddedTextsTotal,
			UploadsTotal,
			QueriesTotal,
			IndexSize,
		)
	})
}
