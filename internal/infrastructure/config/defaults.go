package config

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults sets default values for all configuration fields.
// Boolean defaults that are true are registered with viper instead, since a
// false value cannot be told apart from an unset one here.
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./data/catalog.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "planner"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "factory_planner"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Planner defaults
	if cfg.Planner.MaxDepth == 0 {
		cfg.Planner.MaxDepth = 15
	}
	if cfg.Planner.ScaleMaxDepth == 0 {
		cfg.Planner.ScaleMaxDepth = 20
	}
	if cfg.Planner.MaxScalePasses == 0 {
		cfg.Planner.MaxScalePasses = 50
	}
	if cfg.Planner.AlternativeOrder == "" {
		cfg.Planner.AlternativeOrder = "stations"
	}

	// Catalog defaults
	if cfg.Catalog.Backend == "" {
		cfg.Catalog.Backend = "database"
	}
	if cfg.Catalog.DataDir == "" {
		cfg.Catalog.DataDir = "./data"
	}
	if cfg.Catalog.ResourcesFile == "" {
		cfg.Catalog.ResourcesFile = "resources.json"
	}
	if cfg.Catalog.RecipesFile == "" {
		cfg.Catalog.RecipesFile = "recipes.json"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Enabled && cfg.Metrics.TextfilePath == "" {
		cfg.Metrics.TextfilePath = "./data/factory_planner.prom"
	}
}

// registerDefaults makes every key known to viper so FP_* environment
// variables override it, and sets the defaults SetDefaults cannot express
func registerDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("database.type", defaults.Database.Type)
	v.SetDefault("database.path", defaults.Database.Path)
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.user", defaults.Database.User)
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", defaults.Database.Name)
	v.SetDefault("database.sslmode", defaults.Database.SSLMode)

	v.SetDefault("planner.max_depth", defaults.Planner.MaxDepth)
	v.SetDefault("planner.scale_max_depth", defaults.Planner.ScaleMaxDepth)
	v.SetDefault("planner.max_scale_passes", defaults.Planner.MaxScalePasses)
	v.SetDefault("planner.integer_scales", true)
	v.SetDefault("planner.detect_cycles", false)
	v.SetDefault("planner.alternative_order", defaults.Planner.AlternativeOrder)

	v.SetDefault("catalog.backend", defaults.Catalog.Backend)
	v.SetDefault("catalog.data_dir", defaults.Catalog.DataDir)
	v.SetDefault("catalog.resources_file", defaults.Catalog.ResourcesFile)
	v.SetDefault("catalog.recipes_file", defaults.Catalog.RecipesFile)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.output", defaults.Logging.Output)
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.include_caller", false)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.textfile_path", "")
}
