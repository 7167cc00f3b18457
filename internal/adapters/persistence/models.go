package persistence

import (
	"time"
)

// ResourceModel represents the resources table
type ResourceModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;not null;index"`
	IsRaw     bool      `gorm:"column:is_raw;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (ResourceModel) TableName() string {
	return "resources"
}

// RecipeModel represents the recipes table
type RecipeModel struct {
	ID         string                 `gorm:"column:id;primaryKey"`
	Name       string                 `gorm:"column:name;not null;index"`
	CycleSecs  float64                `gorm:"column:cycle_secs;not null"`
	SourceName string                 `gorm:"column:source_name"`
	CreatedAt  time.Time              `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;not null"`
	Components []RecipeComponentModel `gorm:"foreignKey:RecipeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (RecipeModel) TableName() string {
	return "recipes"
}

// Component kinds stored in recipe_components.kind
const (
	ComponentInput  = "input"
	ComponentOutput = "output"
)

// RecipeComponentModel represents the recipe_components table.
// Position keeps the declaration order of inputs and outputs.
type RecipeComponentModel struct {
	ID         uint           `gorm:"column:id;primaryKey;autoIncrement"`
	RecipeID   string         `gorm:"column:recipe_id;not null;index:idx_recipe_component,priority:1"`
	Kind       string         `gorm:"column:kind;not null;index:idx_recipe_component,priority:2"`
	Position   int            `gorm:"column:position;not null"`
	ResourceID string         `gorm:"column:resource_id;not null;index"`
	Resource   *ResourceModel `gorm:"foreignKey:ResourceID;references:ID"`
	Quantity   float64        `gorm:"column:quantity;not null"`
}

func (RecipeComponentModel) TableName() string {
	return "recipe_components"
}
