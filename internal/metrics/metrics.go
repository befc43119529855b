package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	TransfersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transfers_total",
			Help: "Total completed transfers",
		},
	)
	TransfersFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transfers_failed_total",
			Help: "Total failed transfers",
		},
		[]string{"reason"},
	)

	CardsIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cards_issued_total",
			Help: "Total cards issued",
		},
	)
	CardsBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cards_blocked_total",
			Help: "Total cards blocked by an admin",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(HTTPLatency)
	prometheus.MustRegister(TransfersTotal)
	prometheus.MustRegister(TransfersFailed)
	prometheus.MustRegister(CardsIssued)
	prometheus.MustRegister(CardsBlocked)
}
