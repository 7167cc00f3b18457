package config

// MetricsConfig holds metrics collection configuration.
//
// The planner is a short-lived CLI, so metrics are written once per run to a
// node_exporter textfile instead of being served over HTTP.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// TextfilePath receives the metrics in Prometheus text format
	TextfilePath string `mapstructure:"textfile_path" validate:"required_if=Enabled true"`
}
