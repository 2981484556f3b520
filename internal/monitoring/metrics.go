package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	windowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "walkforward_windows_total",
			Help: "Walk-forward windows processed, by outcome",
		},
		[]string{"outcome"},
	)

	candidateEvaluations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "walkforward_candidate_evaluations_total",
			Help: "Grid-search candidate evaluations performed",
		},
	)

	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "walkforward_run_duration_seconds",
			Help:    "Duration of complete walk-forward runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(windowsTotal)
	prometheus.MustRegister(candidateEvaluations)
	prometheus.MustRegister(runDuration)
}

// RecordWindow records the outcome of one walk-forward window.
func RecordWindow(failed, degraded bool) {
	switch {
	case failed:
		windowsTotal.WithLabelValues("failed").Inc()
	case degraded:
		windowsTotal.WithLabelValues("degraded").Inc()
	default:
		windowsTotal.WithLabelValues("ok").Inc()
	}
}

// RecordCandidateEvaluations adds a batch of optimizer evaluations.
func RecordCandidateEvaluations(n int) {
	candidateEvaluations.Add(float64(n))
}

// ObserveRunDuration records how long a full run took.
func ObserveRunDuration(d time.Duration) {
	runDuration.Observe(d.Seconds())
}

// MetricsHandler serves the Prometheus metrics endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
