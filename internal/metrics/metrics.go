// Package metrics exposes Prometheus collectors for check cycles.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cycle metrics
	CyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launches_check_cycles_total",
			Help: "Total number of check cycles by result",
		},
		[]string{"result"},
	)

	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "launches_check_cycle_duration_seconds",
			Help:    "Check cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	LastCycleTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "launches_last_check_timestamp_seconds",
			Help: "Unix time of the last completed check cycle",
		},
	)

	// Fetch metrics
	LaunchesFetched = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "launches_fetched",
			Help: "Number of launches returned by the last fetch",
		},
	)

	LaunchesChanged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "launches_changed_total",
			Help: "Total number of new or changed launches detected",
		},
	)

	// Notification metrics
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launches_notifications_total",
			Help: "Total number of notifications by service and result",
		},
		[]string{"service", "result"},
	)
)

func init() {
	prometheus.MustRegister(CyclesTotal)
	prometheus.MustRegister(CycleDuration)
	prometheus.MustRegister(LastCycleTimestamp)
	prometheus.MustRegister(LaunchesFetched)
	prometheus.MustRegister(LaunchesChanged)
	prometheus.MustRegister(NotificationsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Cycle results used as the CyclesTotal label.
const (
	ResultOK          = "ok"
	ResultFetchFailed = "fetch_failed"
)

// ObserveCycle records the outcome of one check cycle.
func ObserveCycle(result string, fetched, changed int, duration time.Duration, at time.Time) {
	CyclesTotal.WithLabelValues(result).Inc()
	CycleDuration.Observe(duration.Seconds())
	LastCycleTimestamp.Set(float64(at.Unix()))
	if result == ResultOK {
		LaunchesFetched.Set(float64(fetched))
		LaunchesChanged.Add(float64(changed))
	}
}

// ObserveNotification records one handler delivery.
func ObserveNotification(service string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	NotificationsTotal.WithLabelValues(service, result).Inc()
}

// NewServer builds the HTTP server exposing /metrics on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
