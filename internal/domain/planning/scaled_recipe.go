package planning

import (
	"fmt"
	"math"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/pkg/utils"
)

// ScaleThreshold is the smallest scale increase that is adopted, and the distance
// above a whole number that integer mode still treats as that whole number.
// It keeps rounding noise from re-triggering updates.
const ScaleThreshold = 0.09

// ScaledRecipe is a recipe running on Scale parallel stations
type ScaledRecipe struct {
	recipe *production.Recipe
	scale  float64
}

// NewScaledRecipe creates a recipe at the given station count
func NewScaledRecipe(recipe *production.Recipe, scale float64) *ScaledRecipe {
	return &ScaledRecipe{recipe: recipe, scale: scale}
}

func (s *ScaledRecipe) Recipe() *production.Recipe { return s.recipe }
func (s *ScaledRecipe) RecipeID() string           { return s.recipe.ID }
func (s *ScaledRecipe) Scale() float64             { return s.scale }

// ScaledComponents returns the per-minute inputs and outputs at the current scale
func (s *ScaledRecipe) ScaledComponents() production.RecipeComponents {
	return s.recipe.Scaled(s.scale)
}

// ScaleForMinRPM raises the scale so every demanded product is covered.
// Increases of ScaleThreshold or less are ignored; the scale never decreases.
// Reports whether the scale changed.
func (s *ScaledRecipe) ScaleForMinRPM(demand *production.ResourceQuantities) bool {
	newScale := s.scale
	products := s.ScaledComponents().Products
	for _, target := range demand.Values() {
		produced, ok := products.Get(target.ResourceID())
		if !ok || produced.Quantity == 0 {
			continue
		}
		if candidate := s.scale * (target.Quantity / produced.Quantity); candidate > newScale {
			newScale = candidate
		}
	}
	if newScale-s.scale > ScaleThreshold {
		s.scale = newScale
		return true
	}
	return false
}

// CeilScale rounds the scale up to the next whole number unless it is within
// ScaleThreshold above the whole number below. Reports whether the scale changed.
func (s *ScaledRecipe) CeilScale() bool {
	if utils.Fraction(s.scale) > ScaleThreshold {
		s.scale = math.Ceil(s.scale)
		return true
	}
	return false
}

// Stations returns the whole number of stations to build for the current scale,
// applying the same tolerance as CeilScale and never less than one
func (s *ScaledRecipe) Stations() int {
	whole := utils.CeilAbove(s.scale, ScaleThreshold)
	if whole < 1 {
		return 1
	}
	return int(whole)
}

func (s *ScaledRecipe) String() string {
	return fmt.Sprintf("ScaledRecipe[%.2fx %q]", s.scale, s.recipe.Name)
}
