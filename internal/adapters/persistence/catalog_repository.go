package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// GormCatalogRepository implements CatalogRepository using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// SaveResource persists a resource (insert or update)
func (r *GormCatalogRepository) SaveResource(ctx context.Context, resource *production.Resource) error {
	model := &ResourceModel{
		ID:    resource.ID,
		Name:  resource.Name,
		IsRaw: resource.IsRaw,
	}
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "is_raw", "updated_at"}),
	}
	if err := r.db.WithContext(ctx).Clauses(upsert).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save resource %s: %w", resource.ID, err)
	}
	return nil
}

// SaveRecipe persists a recipe and replaces its components.
// Every component must reference a stored resource.
func (r *GormCatalogRepository) SaveRecipe(ctx context.Context, recipe *production.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		components := recipeToComponents(recipe)

		ids := make([]string, 0, len(components))
		seen := make(map[string]bool)
		for _, c := range components {
			if !seen[c.ResourceID] {
				seen[c.ResourceID] = true
				ids = append(ids, c.ResourceID)
			}
		}
		var found []string
		if err := tx.Model(&ResourceModel{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return fmt.Errorf("failed to check recipe resources: %w", err)
		}
		if len(found) != len(ids) {
			known := make(map[string]bool, len(found))
			for _, id := range found {
				known[id] = true
			}
			for _, id := range ids {
				if !known[id] {
					return &production.ErrResourceNotFound{Ref: "@" + id}
				}
			}
		}

		model := &RecipeModel{
			ID:         recipe.ID,
			Name:       recipe.Name,
			CycleSecs:  recipe.CycleSeconds(),
			SourceName: recipe.SourceName,
		}
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "cycle_secs", "source_name", "updated_at"}),
		}
		if err := tx.Omit("Components").Clauses(upsert).Create(model).Error; err != nil {
			return fmt.Errorf("failed to save recipe %s: %w", recipe.ID, err)
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&RecipeComponentModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear components of recipe %s: %w", recipe.ID, err)
		}
		if len(components) > 0 {
			if err := tx.Create(&components).Error; err != nil {
				return fmt.Errorf("failed to save components of recipe %s: %w", recipe.ID, err)
			}
		}
		return nil
	})
}

// FindResource retrieves a resource by id
func (r *GormCatalogRepository) FindResource(ctx context.Context, id string) (*production.Resource, error) {
	var model ResourceModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &production.ErrResourceNotFound{Ref: "@" + id}
		}
		return nil, fmt.Errorf("failed to find resource: %w", result.Error)
	}
	return modelToResource(&model), nil
}

// FindRecipe retrieves a recipe by id with its components
func (r *GormCatalogRepository) FindRecipe(ctx context.Context, id string) (*production.Recipe, error) {
	var model RecipeModel
	result := r.withComponents(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &production.ErrRecipeNotFound{Ref: "@" + id}
		}
		return nil, fmt.Errorf("failed to find recipe: %w", result.Error)
	}
	return modelToRecipe(&model, nil)
}

// ListResources retrieves all resources ordered by id
func (r *GormCatalogRepository) ListResources(ctx context.Context) ([]*production.Resource, error) {
	var models []ResourceModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}

	resources := make([]*production.Resource, 0, len(models))
	for i := range models {
		resources = append(resources, modelToResource(&models[i]))
	}
	return resources, nil
}

// ListRecipes retrieves all recipes ordered by id
func (r *GormCatalogRepository) ListRecipes(ctx context.Context) ([]*production.Recipe, error) {
	catalog, err := r.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Recipes(), nil
}

// LoadCatalog reads every resource and recipe into one snapshot.
// Both sets are ordered by id, which fixes the candidate order seen by planning.
func (r *GormCatalogRepository) LoadCatalog(ctx context.Context) (*production.Catalog, error) {
	var resourceModels []ResourceModel
	if err := r.db.WithContext(ctx).Order("id").Find(&resourceModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}
	var recipeModels []RecipeModel
	if err := r.withComponents(ctx).Order("id").Find(&recipeModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipes: %w", err)
	}

	catalog := production.NewCatalog()
	for i := range resourceModels {
		if err := catalog.AddResource(modelToResource(&resourceModels[i])); err != nil {
			return nil, err
		}
	}
	for i := range recipeModels {
		recipe, err := modelToRecipe(&recipeModels[i], catalog)
		if err != nil {
			return nil, err
		}
		if err := catalog.AddRecipe(recipe); err != nil {
			return nil, err
		}
	}
	catalog.MarkSaved()
	return catalog, nil
}

func (r *GormCatalogRepository) withComponents(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("kind").Order("position")
		}).
		Preload("Components.Resource")
}

func modelToResource(model *ResourceModel) *production.Resource {
	return &production.Resource{
		ID:    model.ID,
		Name:  model.Name,
		IsRaw: model.IsRaw,
	}
}

// modelToRecipe rebuilds a recipe. When catalog is given, components share the
// catalog's resource instances instead of the preloaded copies.
func modelToRecipe(model *RecipeModel, catalog *production.Catalog) (*production.Recipe, error) {
	resources := make([]production.ResourceQuantity, 0)
	products := make([]production.ResourceQuantity, 0)

	for _, c := range model.Components {
		var resource *production.Resource
		if catalog != nil {
			resource, _ = catalog.Resource(c.ResourceID)
		}
		if resource == nil && c.Resource != nil {
			resource = modelToResource(c.Resource)
		}
		if resource == nil {
			return nil, &production.ErrResourceNotFound{Ref: "@" + c.ResourceID}
		}

		switch c.Kind {
		case ComponentInput:
			resources = append(resources, resource.N(c.Quantity))
		case ComponentOutput:
			products = append(products, resource.N(c.Quantity))
		default:
			return nil, fmt.Errorf("recipe %s: unknown component kind %q", model.ID, c.Kind)
		}
	}

	cycle := time.Duration(model.CycleSecs * float64(time.Second))
	recipe, err := production.NewRecipe(model.Name, model.ID, resources, products, cycle)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe %s in database: %w", model.ID, err)
	}
	recipe.SourceName = model.SourceName
	return recipe, nil
}

func recipeToComponents(recipe *production.Recipe) []RecipeComponentModel {
	components := make([]RecipeComponentModel, 0, recipe.Resources.Len()+recipe.Products.Len())
	for i, q := range recipe.Resources.Values() {
		components = append(components, RecipeComponentModel{
			RecipeID:   recipe.ID,
			Kind:       ComponentInput,
			Position:   i,
			ResourceID: q.ResourceID(),
			Quantity:   q.Quantity,
		})
	}
	for i, q := range recipe.Products.Values() {
		components = append(components, RecipeComponentModel{
			RecipeID:   recipe.ID,
			Kind:       ComponentOutput,
			Position:   i,
			ResourceID: q.ResourceID(),
			Quantity:   q.Quantity,
		})
	}
	return components
}
