package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	apiRequestsTotal  *prometheus.CounterVec
	apiLatencySeconds *prometheus.HistogramVec
	apiErrorsTotal    *prometheus.CounterVec

	leaderboardConnections       prometheus.Gauge
	leaderboardPushesTotal       prometheus.Counter
	leaderboardDeliveryFailures  prometheus.Counter
	resultsRecordedTotal         *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		leaderboardConnections = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "leaderboard_connections",
			Help: "Number of currently connected leaderboard viewers.",
		})

		leaderboardPushesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_pushes_total",
			Help: "Total number of leaderboard snapshots fanned out to viewers.",
		})

		leaderboardDeliveryFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leaderboard_delivery_failures_total",
			Help: "Total number of per-connection delivery failures during fan-out.",
		})

		resultsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "results_recorded_total",
			Help: "Total number of ledger mutations applied.",
		}, []string{"operation"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			leaderboardConnections,
			leaderboardPushesTotal,
			leaderboardDeliveryFailures,
			resultsRecordedTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// LeaderboardConnections exposes the connected-viewer gauge.
func LeaderboardConnections() prometheus.Gauge {
	RegisterMetrics()
	return leaderboardConnections
}

// LeaderboardPushes exposes the fan-out counter.
func LeaderboardPushes() prometheus.Counter {
	RegisterMetrics()
	return leaderboardPushesTotal
}

// LeaderboardDeliveryFailures exposes the per-connection failure counter.
func LeaderboardDeliveryFailures() prometheus.Counter {
	RegisterMetrics()
	return leaderboardDeliveryFailures
}

// ResultsRecorded exposes the ledger mutation counter.
func ResultsRecorded() *prometheus.CounterVec {
	RegisterMetrics()
	return resultsRecordedTotal
}
