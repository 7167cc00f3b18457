package production

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

// secondsPerMinute converts per-cycle quantities into per-minute rates
const secondsPerMinute = 60.0

// Recipe turns a set of input resources into one or more products every cycle.
//
// A recipe without inputs models an extractor (a mine, a pump); SourceName then
// names what it extracts from and is shown instead of an empty input list.
type Recipe struct {
	ID         string
	Name       string
	CycleTime  time.Duration
	Resources  *ResourceQuantities
	Products   *ResourceQuantities
	SourceName string
}

// NewRecipe validates and creates a recipe. The id is generated from the name when empty.
func NewRecipe(
	name string,
	id string,
	resources []ResourceQuantity,
	products []ResourceQuantity,
	cycleTime time.Duration,
) (*Recipe, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewValidationError("name", "recipe name must not be empty")
	}
	if strings.TrimSpace(id) == "" {
		id = GenerateID(name)
	}
	if cycleTime <= 0 {
		return nil, shared.NewValidationError("cycle_time", fmt.Sprintf("must be positive, got %s", cycleTime))
	}
	if len(products) == 0 {
		return nil, shared.NewValidationError("products", "recipe must produce at least one product")
	}
	for _, q := range append(append([]ResourceQuantity{}, resources...), products...) {
		if q.Resource == nil {
			return nil, shared.NewValidationError("resources", "quantity without resource")
		}
		if q.Quantity < 0 {
			return nil, shared.NewValidationError("quantity",
				fmt.Sprintf("negative quantity %.2f for %s", q.Quantity, q.Resource.ID))
		}
	}
	for _, p := range products {
		if p.Quantity == 0 {
			return nil, shared.NewValidationError("products",
				fmt.Sprintf("product %s has zero quantity", p.Resource.ID))
		}
	}

	return &Recipe{
		ID:        id,
		Name:      name,
		CycleTime: cycleTime,
		Resources: NewResourceQuantities(resources...),
		Products:  NewResourceQuantities(products...),
	}, nil
}

// CycleSeconds returns the cycle time in (fractional) seconds
func (r *Recipe) CycleSeconds() float64 {
	return r.CycleTime.Seconds()
}

// CyclesPerMinute returns how often one station completes the recipe per minute
func (r *Recipe) CyclesPerMinute() float64 {
	return secondsPerMinute / r.CycleSeconds()
}

// Produces reports whether the recipe lists the resource among its products
func (r *Recipe) Produces(resourceID string) bool {
	return r.Products.Contains(resourceID)
}

// Production returns the view of this recipe targeted at one of its products.
// Input and byproduct quantities are normalised per unit of the product.
func (r *Recipe) Production(product *Resource) (*TargetedProduction, bool) {
	if product == nil {
		return nil, false
	}
	target, ok := r.Products.Get(product.ID)
	if !ok {
		return nil, false
	}

	perUnit := 1 / target.Quantity
	resources := make([]ResourceQuantity, 0, r.Resources.Len())
	for _, res := range r.Resources.Values() {
		resources = append(resources, res.Scale(perUnit))
	}
	byproducts := make([]ResourceQuantity, 0, r.Products.Len()-1)
	for _, p := range r.Products.Values() {
		if p.ResourceID() == product.ID {
			continue
		}
		byproducts = append(byproducts, p.Scale(perUnit))
	}

	return &TargetedProduction{
		Product:    target.Resource,
		Resources:  resources,
		Byproducts: byproducts,
		BaseRPM:    r.CyclesPerMinute() * target.Quantity,
	}, true
}

// MustProduction is Production for callers that already checked Produces
func (r *Recipe) MustProduction(product *Resource) *TargetedProduction {
	p, ok := r.Production(product)
	if !ok {
		panic(&ErrProductNotProduced{RecipeID: r.ID, ProductID: product.ID})
	}
	return p
}

// Scaled returns the per-minute inputs and outputs of factor parallel stations
func (r *Recipe) Scaled(factor float64) RecipeComponents {
	perMinute := r.CyclesPerMinute() * factor
	return RecipeComponents{
		Resources: r.Resources.Scale(perMinute),
		Products:  r.Products.Scale(perMinute),
	}
}

// ScaleFactorForProduct returns how many stations are needed to reach targetRPM of product
func (r *Recipe) ScaleFactorForProduct(product *Resource, targetRPM float64) (float64, error) {
	p, ok := r.Production(product)
	if !ok {
		return 0, &ErrProductNotProduced{RecipeID: r.ID, ProductID: product.ID}
	}
	return targetRPM / p.BaseRPM, nil
}

// NthProduct returns the n-th product in declaration order
func (r *Recipe) NthProduct(n int) (*Resource, bool) {
	values := r.Products.Values()
	if n < 0 || n >= len(values) {
		return nil, false
	}
	return values[n].Resource, true
}

// Equal compares identity, names, cycle time and components
func (r *Recipe) Equal(other *Recipe) bool {
	if other == nil {
		return false
	}
	return r.ID == other.ID &&
		r.Name == other.Name &&
		r.SourceName == other.SourceName &&
		r.CycleTime == other.CycleTime &&
		r.Resources.Equal(other.Resources) &&
		r.Products.Equal(other.Products)
}

func (r *Recipe) String() string {
	return r.format(r.Resources, r.Products, "")
}

// StringForRPM renders the recipe with per-minute quantities of a single station
func (r *Recipe) StringForRPM() string {
	c := r.Scaled(1.0)
	return r.format(c.Resources, c.Products, " RPM")
}

func (r *Recipe) format(resources, products *ResourceQuantities, suffix string) string {
	in := resources.String()
	if resources.Len() == 0 {
		in = "()"
		if r.SourceName != "" {
			in = r.SourceName
		}
	}
	return fmt.Sprintf("Recipe %q: [%s -> %s%s]", r.Name, in, products.String(), suffix)
}

// RecipeComponents holds the per-minute inputs and outputs of a scaled recipe
type RecipeComponents struct {
	Resources *ResourceQuantities
	Products  *ResourceQuantities
}
