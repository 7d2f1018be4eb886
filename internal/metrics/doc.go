// Package metrics collects request metrics for the site.
//
// Handlers emit events on a buffered channel without blocking; a single
// goroutine folds them into:
//   - per-route request counts, status codes and response time percentiles,
//     served as JSON by Collector.Handler
//   - a Prometheus registry with request counters, a latency histogram and
//     template render failures, served by Collector.PrometheusHandler
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventResponseCompleted,
//		Route:      "home",
//		Method:     http.MethodGet,
//		Duration:   3 * time.Millisecond,
//		StatusCode: http.StatusOK,
//	})
//
// Pending events are drained when the context passed to Start is cancelled.
package metrics
