package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(prometheus.Labels{"app": "blogqa"}, registry)

var (
	// Latency buckets in milliseconds; completions dominate and take seconds.
	latencyBuckets = []float64{
		10, 50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	tokenBuckets = []float64{0, 250, 500, 1000, 2000, 3000, 4000, 5000}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogqa_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"route", "method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogqa_request_latency_ms",
			Help:    "HTTP request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	AskFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogqa_ask_failures_total",
			Help: "Failed questions by pipeline stage",
		},
		[]string{"stage"},
	)

	ContextTokens = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blogqa_context_tokens",
			Help:    "Tokens of blog content placed in the completion context",
			Buckets: tokenBuckets,
		},
	)
)

var initOnce sync.Once

// Initialize adds the runtime collectors and makes the private registry the
// default one. Repeated calls are no-ops.
func Initialize() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

func Registry() *prometheus.Registry {
	return registry
}
