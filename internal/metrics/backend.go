package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search backend and session Prometheus metrics.
var (
	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entitysearch",
			Name:      "backend_requests_total",
			Help:      "Total number of search backend requests",
		},
		[]string{"backend", "entity", "status"},
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "entitysearch",
			Name:      "backend_request_duration_seconds",
			Help:      "Search backend request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"backend", "entity"},
	)

	ResponseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entitysearch",
			Name:      "response_cache_total",
			Help:      "Search response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "entitysearch",
			Name:      "sessions_active",
			Help:      "Number of live search sessions",
		},
	)

	ConditionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entitysearch",
			Name:      "condition_events_total",
			Help:      "Condition events applied to search sessions",
		},
		[]string{"type", "result"},
	)
)

var backendMetricsRegistered bool

// RegisterBackendMetrics registers the backend and session metrics. Must be called once from main.
func RegisterBackendMetrics() {
	if backendMetricsRegistered {
		return
	}
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	prometheus.MustRegister(ResponseCacheTotal)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(ConditionEventsTotal)
	backendMetricsRegistered = true
}
