package helpers

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// ComponentFixture is one "<resource id> x quantity" entry of a recipe fixture
type ComponentFixture struct {
	ResourceID string
	Quantity   float64
}

// RecipeFixture describes a recipe by resource ids
type RecipeFixture struct {
	ID         string
	Name       string
	CycleSecs  float64
	SourceName string
	Inputs     []ComponentFixture
	Outputs    []ComponentFixture
}

// ResourceFixture describes a resource
type ResourceFixture struct {
	ID    string
	Name  string
	IsRaw bool
}

// FactoryResources is the resource set of the factory world
var FactoryResources = []ResourceFixture{
	{ID: "iron_ore", Name: "Iron Ore", IsRaw: true},
	{ID: "iron_ingot", Name: "Iron Ingot"},
	{ID: "iron_rod", Name: "Iron Rod"},
	{ID: "screws", Name: "Screws"},
	{ID: "iron_plate", Name: "Iron Plate"},
	{ID: "reinforced_plate", Name: "Reinforced Iron Plate"},
	{ID: "rotor", Name: "Rotor"},
	{ID: "smart_plating", Name: "Smart Plating"},
}

// FactoryRecipes is the recipe set of the factory world.
//
// Base rates per station: ingot 30, rod 15, screws 40 (cast screws 20),
// plate 20, reinforced plate 5, rotor 4, smart plating 2.
// Smart Plating consumes Screws through two branches.
var FactoryRecipes = []RecipeFixture{
	{
		ID: "iron_ore_mine", Name: "Iron Ore Mine", CycleSecs: 1, SourceName: "Iron Node",
		Outputs: []ComponentFixture{{"iron_ore", 1}},
	},
	{
		ID: "iron_ingot", Name: "Iron Ingot", CycleSecs: 2,
		Inputs:  []ComponentFixture{{"iron_ore", 1}},
		Outputs: []ComponentFixture{{"iron_ingot", 1}},
	},
	{
		ID: "iron_rod", Name: "Iron Rod", CycleSecs: 4,
		Inputs:  []ComponentFixture{{"iron_ingot", 1}},
		Outputs: []ComponentFixture{{"iron_rod", 1}},
	},
	{
		ID: "screws", Name: "Screws", CycleSecs: 6,
		Inputs:  []ComponentFixture{{"iron_rod", 1}},
		Outputs: []ComponentFixture{{"screws", 4}},
	},
	{
		ID: "cast_screws", Name: "Cast Screws", CycleSecs: 60,
		Inputs:  []ComponentFixture{{"iron_ingot", 5}},
		Outputs: []ComponentFixture{{"screws", 20}},
	},
	{
		ID: "iron_plate", Name: "Iron Plate", CycleSecs: 6,
		Inputs:  []ComponentFixture{{"iron_ingot", 3}},
		Outputs: []ComponentFixture{{"iron_plate", 2}},
	},
	{
		ID: "reinforced_plate", Name: "Reinforced Iron Plate", CycleSecs: 12,
		Inputs:  []ComponentFixture{{"iron_plate", 6}, {"screws", 12}},
		Outputs: []ComponentFixture{{"reinforced_plate", 1}},
	},
	{
		ID: "rotor", Name: "Rotor", CycleSecs: 15,
		Inputs:  []ComponentFixture{{"iron_rod", 5}, {"screws", 25}},
		Outputs: []ComponentFixture{{"rotor", 1}},
	},
	{
		ID: "smart_plating", Name: "Smart Plating", CycleSecs: 30,
		Inputs:  []ComponentFixture{{"reinforced_plate", 1}, {"rotor", 1}},
		Outputs: []ComponentFixture{{"smart_plating", 1}},
	},
}

// LoopResources and LoopRecipes form a two-recipe cycle: each consumes the
// other's product and nothing else.
var LoopResources = []ResourceFixture{
	{ID: "water", Name: "Water"},
	{ID: "steam", Name: "Steam"},
}

var LoopRecipes = []RecipeFixture{
	{
		ID: "condense", Name: "Condense", CycleSecs: 6,
		Inputs:  []ComponentFixture{{"steam", 1}},
		Outputs: []ComponentFixture{{"water", 1}},
	},
	{
		ID: "boil", Name: "Boil", CycleSecs: 6,
		Inputs:  []ComponentFixture{{"water", 1}},
		Outputs: []ComponentFixture{{"steam", 1}},
	},
}

// BuildCatalog creates a catalog snapshot from fixtures
func BuildCatalog(resources []ResourceFixture, recipes []RecipeFixture) (*production.Catalog, error) {
	catalog := production.NewCatalog()
	for _, r := range resources {
		if err := catalog.AddResource(production.NewResource(r.Name, r.ID, r.IsRaw)); err != nil {
			return nil, err
		}
	}
	for _, rf := range recipes {
		recipe, err := BuildRecipe(catalog, rf)
		if err != nil {
			return nil, err
		}
		if err := catalog.AddRecipe(recipe); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// BuildRecipe creates a recipe whose components are resources of catalog
func BuildRecipe(catalog *production.Catalog, rf RecipeFixture) (*production.Recipe, error) {
	inputs, err := quantities(catalog, rf.Inputs)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", rf.ID, err)
	}
	outputs, err := quantities(catalog, rf.Outputs)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", rf.ID, err)
	}
	cycle := time.Duration(rf.CycleSecs * float64(time.Second))
	recipe, err := production.NewRecipe(rf.Name, rf.ID, inputs, outputs, cycle)
	if err != nil {
		return nil, err
	}
	recipe.SourceName = rf.SourceName
	return recipe, nil
}

func quantities(catalog *production.Catalog, components []ComponentFixture) ([]production.ResourceQuantity, error) {
	out := make([]production.ResourceQuantity, 0, len(components))
	for _, c := range components {
		res, ok := catalog.Resource(c.ResourceID)
		if !ok {
			return nil, &production.ErrResourceNotFound{Ref: "@" + c.ResourceID}
		}
		out = append(out, res.N(c.Quantity))
	}
	return out, nil
}

// NewFactoryCatalog returns the factory world. It panics on a broken fixture.
func NewFactoryCatalog() *production.Catalog {
	catalog, err := BuildCatalog(FactoryResources, FactoryRecipes)
	if err != nil {
		panic(err)
	}
	return catalog
}

// NewLoopCatalog returns the water/steam cycle. It panics on a broken fixture.
func NewLoopCatalog() *production.Catalog {
	catalog, err := BuildCatalog(LoopResources, LoopRecipes)
	if err != nil {
		panic(err)
	}
	return catalog
}

// SeedCatalog stores every resource and recipe of catalog through repo
func SeedCatalog(ctx context.Context, repo production.CatalogRepository, catalog *production.Catalog) error {
	for _, res := range catalog.Resources() {
		if err := repo.SaveResource(ctx, res); err != nil {
			return err
		}
	}
	for _, rec := range catalog.Recipes() {
		if err := repo.SaveRecipe(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
