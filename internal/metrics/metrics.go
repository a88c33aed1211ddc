package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for quote intake and push dispatch outcomes.
var (
	QuoteSubmissionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quote_submissions_total",
			Help: "Total number of quote submissions accepted",
		},
	)

	DispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatches_total",
			Help: "Total number of dispatch invocations by outcome",
		},
		[]string{"outcome"}, // delivered, empty, failed
	)

	SendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_sends_total",
			Help: "Total number of per-device gateway sends by result",
		},
		[]string{"result"}, // ok, error
	)
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(QuoteSubmissionsTotal)
	prometheus.MustRegister(DispatchesTotal)
	prometheus.MustRegister(SendsTotal)
}
