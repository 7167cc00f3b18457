package config

// CatalogConfig selects where resources and recipes are stored
type CatalogConfig struct {
	// Backend: "database" (gorm) or "files" (JSON data directory)
	Backend string `mapstructure:"backend" validate:"required,oneof=database files"`

	// Data directory for the files backend and the default import/export location
	DataDir string `mapstructure:"data_dir" validate:"required"`

	// File names inside DataDir
	ResourcesFile string `mapstructure:"resources_file" validate:"required"`
	RecipesFile   string `mapstructure:"recipes_file" validate:"required"`
}
