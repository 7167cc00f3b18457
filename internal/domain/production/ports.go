package production

import "context"

// RecipeFinder is the only catalog capability the planner core needs.
// Results must be in a stable order for the duration of one planning request.
type RecipeFinder interface {
	FindRecipesByProduct(product *Resource) []*Recipe
}

// CatalogRepository defines the persistence interface for resources and recipes
type CatalogRepository interface {
	// SaveResource persists a resource (insert or update)
	SaveResource(ctx context.Context, resource *Resource) error

	// SaveRecipe persists a recipe together with its inputs and outputs
	SaveRecipe(ctx context.Context, recipe *Recipe) error

	// FindResource retrieves a resource by id
	FindResource(ctx context.Context, id string) (*Resource, error)

	// FindRecipe retrieves a recipe by id
	FindRecipe(ctx context.Context, id string) (*Recipe, error)

	// ListResources retrieves all resources ordered by id
	ListResources(ctx context.Context) ([]*Resource, error)

	// ListRecipes retrieves all recipes ordered by id
	ListRecipes(ctx context.Context) ([]*Recipe, error)

	// LoadCatalog reads everything into an in-memory snapshot for planning
	LoadCatalog(ctx context.Context) (*Catalog, error)
}
