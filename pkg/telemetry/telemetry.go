// Package telemetry records request-level Prometheus metrics. Metrics are
// registered on the default registry and exposed via /metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pirsvc",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by path, method and status.",
	}, []string{"path", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pirsvc",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Request latency by path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})

	inflight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pirsvc",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Requests currently being served.",
	})

	// CompressedResponses counts responses the negotiator chose to gzip.
	CompressedResponses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pirsvc",
		Subsystem: "http",
		Name:      "compressed_responses_total",
		Help:      "Responses streamed with Content-Encoding: gzip.",
	})
)

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Middleware wraps a handler with request counting, latency and in-flight
// tracking.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inflight.Inc()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		inflight.Dec()
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		requestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
