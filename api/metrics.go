package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptofactor_api_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cryptofactor_api_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	backtestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cryptofactor_backtest_runs_total",
		Help: "Backtests served over HTTP, by kind and outcome.",
	}, []string{"kind", "outcome"})

	sweepEntries = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cryptofactor_sweep_entries",
		Help:    "Number of parameter combinations per sweep request.",
		Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
	})
)

func observeRequest(route, method string, status int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func observeRun(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	backtestRuns.WithLabelValues(kind, outcome).Inc()
}
