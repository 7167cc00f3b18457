package config

// PlannerConfig holds the defaults for production planning requests
type PlannerConfig struct {
	// Deepest tree level whose requirements are still resolved (root is 0)
	MaxDepth int `mapstructure:"max_depth" validate:"min=0,max=64"`

	// Recursion bound of one scale propagation pass
	ScaleMaxDepth int `mapstructure:"scale_max_depth" validate:"min=1,max=256"`

	// How often a scale pass is repeated before giving up on a fixed point
	MaxScalePasses int `mapstructure:"max_scale_passes" validate:"min=1,max=10000"`

	// Round station counts up to whole numbers
	IntegerScales bool `mapstructure:"integer_scales"`

	// Cut recipes that reappear on their own dependency path
	DetectCycles bool `mapstructure:"detect_cycles"`

	// Candidate ordering for alternatives: stations, inputs or catalog
	AlternativeOrder string `mapstructure:"alternative_order" validate:"required,alternative_order"`
}
