package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	InsightsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zento",
			Name:      "insights_requests_total",
			Help:      "Total number of insights provider requests",
		},
		[]string{"endpoint", "status"},
	)

	InsightsRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "zento",
			Name:      "insights_request_duration_seconds",
			Help:      "Insights provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"endpoint"},
	)

	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zento",
			Name:      "completion_requests_total",
			Help:      "Total number of completion requests",
		},
		[]string{"model", "status"},
	)

	CompletionModelFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zento",
			Name:      "completion_model_fallbacks_total",
			Help:      "Completion requests that rotated to a secondary model",
		},
	)

	ClassifierRuleFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "zento",
			Name:      "classifier_rule_fallbacks_total",
			Help:      "Intent classifications served by the rule-based fallback",
		},
	)

	DispatchStrategiesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zento",
			Name:      "dispatch_strategies_total",
			Help:      "Dispatcher fallback strategy attempts",
		},
		[]string{"strategy", "outcome"}, // outcome: "hit" / "miss" / "error"
	)

	InsightsCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zento",
			Name:      "insights_cache_total",
			Help:      "Insights response cache lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	ProfileCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zento",
			Name:      "profile_reads_total",
			Help:      "Profile store reads",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(InsightsRequestsTotal)
	prometheus.MustRegister(InsightsRequestDuration)
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionModelFallbacksTotal)
	prometheus.MustRegister(ClassifierRuleFallbacksTotal)
	prometheus.MustRegister(DispatchStrategiesTotal)
	prometheus.MustRegister(InsightsCacheTotal)
	prometheus.MustRegister(ProfileCacheTotal)
	pipelineMetricsRegistered = true
}
