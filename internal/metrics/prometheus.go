package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// PrometheusRecorder mirrors collected events into a private Prometheus
// registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	renderFailures  *prometheus.CounterVec
}

func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_http_requests_total",
			Help: "Total HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "site_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		renderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "site_template_render_failures_total",
			Help: "Total template rendering failures by template name.",
		}, []string{"template"}),
	}

	registry.MustRegister(r.requestsTotal)
	registry.MustRegister(r.requestDuration)
	registry.MustRegister(r.renderFailures)

	return r
}

func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *PrometheusRecorder) RecordResponse(route, method string, duration time.Duration, statusCode int) {
	r.requestsTotal.WithLabelValues(route, method, strconv.Itoa(statusCode)).Inc()
	r.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (r *PrometheusRecorder) RecordRenderFailure(template string) {
	r.renderFailures.WithLabelValues(template).Inc()
}
