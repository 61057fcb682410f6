package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "editor", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "editor", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	DocumentOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "editor", Name: "document_operations_total", Help: "Document service operations by operation and result."},
		[]string{"operation", "result"},
	)
	ClientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "editor", Name: "client_requests_total", Help: "Document client calls by operation and result."},
		[]string{"operation", "result"},
	)
	ClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "editor", Name: "client_request_seconds", Help: "Document client call latency.", Buckets: prometheus.DefBuckets},
		[]string{"operation"},
	)
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Outcome maps an error to a result label.
func Outcome(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(DocumentOperations)
	reg.MustRegister(ClientRequests)
	reg.MustRegister(ClientLatency)
}
