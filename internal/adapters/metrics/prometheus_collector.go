package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "factory_planner"
	// Subsystem for planning metrics
	subsystem = "planner"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalPlanningCollector is the singleton planning metrics collector
	// Set by SetGlobalPlanningCollector() when metrics are enabled
	globalPlanningCollector PlanningMetricsRecorder
)

// PlanningMetricsRecorder defines the interface for recording planning metrics
// This interface is used by application code to record metrics
type PlanningMetricsRecorder interface {
	RecordPlan(stats PlanStats)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Reset drops the registry and the global collector
func Reset() {
	Registry = nil
	globalPlanningCollector = nil
}

// SetGlobalPlanningCollector sets the global planning metrics collector
func SetGlobalPlanningCollector(collector PlanningMetricsRecorder) {
	globalPlanningCollector = collector
}

// RecordPlan records a finished planning request globally
func RecordPlan(stats PlanStats) {
	if globalPlanningCollector != nil {
		globalPlanningCollector.RecordPlan(stats)
	}
}

// WriteTextfile writes the registry in the text exposition format, for the
// node_exporter textfile collector. A no-op when metrics are disabled.
func WriteTextfile(path string) error {
	if Registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
