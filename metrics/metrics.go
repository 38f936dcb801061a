// Package metrics provides Prometheus metrics collection for server monitoring.
// It exports metrics for HTTP request performance plus counters for the
// asynchronous mail pipeline:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - mail_notifications_total: Counter with a delivery status label
//   - cart_sessions_cleaned_total: Counter of expired cart sessions removed
//
// All metrics are automatically registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	MailNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_notifications_total",
			Help: "Order confirmation emails by delivery status (sent, failed, dropped)",
		},
		[]string{"status"},
	)

	CartSessionsCleanedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_sessions_cleaned_total",
			Help: "Expired cart sessions removed by the cleanup job",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(MailNotificationsTotal)
	prometheus.MustRegister(CartSessionsCleanedTotal)
}
