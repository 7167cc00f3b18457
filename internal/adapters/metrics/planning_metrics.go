package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PlanStats summarises one planning request
type PlanStats struct {
	Recipe          string
	Success         bool
	DurationSeconds float64
	TreeNodes       int
	GraphNodes      int
	ScalePasses     int
	Converged       bool
	TruncatedNodes  int
	Unresolved      []string
}

// PlanningMetricsCollector handles all planning pipeline metrics
type PlanningMetricsCollector struct {
	plansTotal          *prometheus.CounterVec
	planDuration        prometheus.Histogram
	treeNodes           prometheus.Histogram
	graphNodes          prometheus.Histogram
	scalePasses         prometheus.Histogram
	nonConvergedTotal   prometheus.Counter
	truncatedNodesTotal prometheus.Counter
	unresolvedTotal     *prometheus.CounterVec
}

// NewPlanningMetricsCollector creates a new planning metrics collector
func NewPlanningMetricsCollector() *PlanningMetricsCollector {
	return &PlanningMetricsCollector{
		plansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plans_total",
				Help:      "Total number of planning requests by status",
			},
			[]string{"status"},
		),

		planDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_duration_seconds",
				Help:      "Planning request duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),

		treeNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tree_nodes",
				Help:      "Number of nodes in built production trees, inactive candidates included",
				Buckets:   prometheus.ExponentialBuckets(4, 2, 12),
			},
		),

		graphNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "graph_nodes",
				Help:      "Number of distinct recipes in production graphs",
				Buckets:   prometheus.LinearBuckets(1, 5, 10),
			},
		),

		scalePasses: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "scale_passes",
				Help:      "Scale propagation passes until the graph was stable",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
			},
		),

		nonConvergedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "scale_not_converged_total",
				Help:      "Plans whose scale propagation hit the pass bound",
			},
		),

		truncatedNodesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "depth_truncated_nodes_total",
				Help:      "Production nodes left unexpanded by the depth limit",
			},
		),

		unresolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unresolved_resources_total",
				Help:      "Required resources that no recipe produces",
			},
			[]string{"resource"},
		),
	}
}

// Register registers all planning metrics with the Prometheus registry
func (c *PlanningMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.plansTotal,
		c.planDuration,
		c.treeNodes,
		c.graphNodes,
		c.scalePasses,
		c.nonConvergedTotal,
		c.truncatedNodesTotal,
		c.unresolvedTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordPlan records the outcome of one planning request
func (c *PlanningMetricsCollector) RecordPlan(stats PlanStats) {
	status := "success"
	if !stats.Success {
		status = "error"
	}
	c.plansTotal.WithLabelValues(status).Inc()
	c.planDuration.Observe(stats.DurationSeconds)

	if !stats.Success {
		return
	}

	c.treeNodes.Observe(float64(stats.TreeNodes))
	c.graphNodes.Observe(float64(stats.GraphNodes))
	c.scalePasses.Observe(float64(stats.ScalePasses))
	if !stats.Converged {
		c.nonConvergedTotal.Inc()
	}
	c.truncatedNodesTotal.Add(float64(stats.TruncatedNodes))
	for _, resource := range stats.Unresolved {
		c.unresolvedTotal.WithLabelValues(resource).Inc()
	}
}
