// Package metrics defines the Prometheus metrics of the service.
//
// Metrics live on a dedicated registry served by Handler. Names carry the
// result_ prefix; counters end in _total and durations in _seconds.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ResponsesTotal counts Results written to clients by result status and HTTP code.
	ResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_responses_total",
			Help: "Results mapped to HTTP responses, by result status and HTTP code.",
		},
		[]string{"status", "code"},
	)

	// FaultsTotal counts unexpected faults turned into 500 responses.
	FaultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_faults_total",
			Help: "Unexpected faults converted to 500 JSON responses, by source.",
		},
		[]string{"source"},
	)

	// RequestDurationSeconds observes request latency by method and HTTP code.
	RequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "result_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)

	Registry = prometheus.NewRegistry()
)

// Fault sources.
const (
	SourcePanic = "panic"
	SourceError = "error"
)

func init() {
	Registry.MustRegister(
		ResponsesTotal,
		FaultsTotal,
		RequestDurationSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// RecordResult records one Result written with the given HTTP code.
func RecordResult(status string, code int) {
	ResponsesTotal.WithLabelValues(status, strconv.Itoa(code)).Inc()
}

// RecordFault records one fault converted to a 500 response.
func RecordFault(source string) {
	FaultsTotal.WithLabelValues(source).Inc()
}

// ObserveRequest records the latency of a finished request.
func ObserveRequest(method string, code int, d time.Duration) {
	RequestDurationSeconds.WithLabelValues(method, strconv.Itoa(code)).Observe(d.Seconds())
}
