package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	chatRequests    *prometheus.CounterVec
	streamErrors    prometheus.Counter
	storeOps        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperhub",
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome.",
		}, []string{"result"}),
		streamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperhub",
			Name:      "chat_stream_errors_total",
			Help:      "Chat streams that failed after the first fragment.",
		}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paperhub",
			Name:      "store_operations_total",
			Help:      "Comment and like operations by outcome.",
		}, []string{"op", "result"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "paperhub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "paperhub",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client limiter.",
		}),
	}

	m.registry.MustRegister(
		m.chatRequests,
		m.streamErrors,
		m.storeOps,
		m.requestDuration,
		m.rateLimited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
