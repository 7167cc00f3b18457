package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/factory-planner/internal/application/mediator"
)

// RequestMetricsCollector records mediator request metrics
type RequestMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

// NewRequestMetricsCollector creates a new request metrics collector
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Command and query handling duration distribution",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"request", "kind", "status"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of commands and queries handled by type and status",
			},
			[]string{"request", "kind", "status"},
		),
	}
}

// Register registers all request metrics with the Prometheus registry
func (c *RequestMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, metric := range []prometheus.Collector{c.requestDuration, c.requestsTotal} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest records one handled request
func (c *RequestMetricsCollector) RecordRequest(name string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	kind := requestKind(name)
	c.requestDuration.WithLabelValues(name, kind, status).Observe(duration)
	c.requestsTotal.WithLabelValues(name, kind, status).Inc()
}

// PrometheusMiddleware records duration and outcome of every request sent
// through the mediator. A nil collector disables it.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordRequest(requestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}

// requestName strips pointer and package: "*commands.PlanProductionCommand" → "PlanProductionCommand"
func requestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func requestKind(name string) string {
	switch {
	case strings.HasSuffix(name, "Query"):
		return "query"
	case strings.HasSuffix(name, "Command"):
		return "command"
	default:
		return "other"
	}
}
