package production

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecipeBuilder assembles a recipe step by step, resolving resource references
// against a catalog. The first failed lookup is kept and reported by Build.
type RecipeBuilder struct {
	catalog    *Catalog
	name       string
	id         string
	sourceName string
	cycleTime  time.Duration
	resources  []ResourceQuantity
	products   []ResourceQuantity
	err        error
}

// NewRecipeBuilder creates a builder with a one second cycle
func NewRecipeBuilder(catalog *Catalog) *RecipeBuilder {
	return &RecipeBuilder{
		catalog:   catalog,
		cycleTime: time.Second,
	}
}

func (b *RecipeBuilder) Name(name string) *RecipeBuilder {
	b.name = name
	return b
}

func (b *RecipeBuilder) ID(id string) *RecipeBuilder {
	b.id = id
	return b
}

func (b *RecipeBuilder) SourceName(source string) *RecipeBuilder {
	b.sourceName = source
	return b
}

func (b *RecipeBuilder) CycleTime(d time.Duration) *RecipeBuilder {
	b.cycleTime = d
	return b
}

// Resource adds an input, referenced by name or "@id"
func (b *RecipeBuilder) Resource(ref string, quantity float64) *RecipeBuilder {
	if res := b.lookup(ref); res != nil {
		b.resources = append(b.resources, res.N(quantity))
	}
	return b
}

// Product adds an output, referenced by name or "@id"
func (b *RecipeBuilder) Product(ref string, quantity float64) *RecipeBuilder {
	if res := b.lookup(ref); res != nil {
		b.products = append(b.products, res.N(quantity))
	}
	return b
}

// ResourceQuantity adds an already resolved input
func (b *RecipeBuilder) ResourceQuantity(q ResourceQuantity) *RecipeBuilder {
	b.resources = append(b.resources, q)
	return b
}

// ProductQuantity adds an already resolved output
func (b *RecipeBuilder) ProductQuantity(q ResourceQuantity) *RecipeBuilder {
	b.products = append(b.products, q)
	return b
}

func (b *RecipeBuilder) lookup(ref string) *Resource {
	if b.err != nil {
		return nil
	}
	res, err := b.catalog.ResolveResource(ref)
	if err != nil {
		b.err = err
		return nil
	}
	return res
}

// Build validates the collected parts and creates the recipe
func (b *RecipeBuilder) Build() (*Recipe, error) {
	if b.err != nil {
		return nil, b.err
	}
	recipe, err := NewRecipe(b.name, b.id, b.resources, b.products, b.cycleTime)
	if err != nil {
		return nil, err
	}
	recipe.SourceName = b.sourceName
	return recipe, nil
}

// ParseCycleTime parses "[[hours:]minutes:]seconds" where each part may be fractional,
// e.g. "4", "1:30" or "1:00:00".
func ParseCycleTime(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid cycle time %q: expected [[h:]m:]s", s)
	}

	units := []time.Duration{time.Second, time.Minute, time.Hour}
	var total time.Duration
	for i := 0; i < len(parts); i++ {
		part := parts[len(parts)-1-i]
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid cycle time %q: %w", s, err)
		}
		if value < 0 {
			return 0, fmt.Errorf("invalid cycle time %q: negative component", s)
		}
		total += time.Duration(value * float64(units[i]))
	}
	if total <= 0 {
		return 0, fmt.Errorf("invalid cycle time %q: must be positive", s)
	}
	return total, nil
}
