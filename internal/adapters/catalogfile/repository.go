package catalogfile

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// Repository keeps the catalog in a JSON data directory.
//
// The directory is read once on first use. Every save writes back only the
// files whose set was modified.
type Repository struct {
	dir  string
	json *jsonDir

	mu      sync.Mutex
	catalog *production.Catalog
}

// NewRepository creates a file-backed catalog repository
func NewRepository(dir, resourcesFile, recipesFile string) *Repository {
	return &Repository{
		dir:  dir,
		json: &jsonDir{resourcesFile: resourcesFile, recipesFile: recipesFile},
	}
}

func (r *Repository) load() (*production.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}
	catalog, err := r.json.read(r.dir)
	if err != nil {
		return nil, err
	}
	r.catalog = catalog
	return catalog, nil
}

// SaveResource inserts or replaces a resource and flushes the resources file
func (r *Repository) SaveResource(ctx context.Context, resource *production.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return err
	}
	catalog.PutResource(resource)
	return r.json.saveModified(r.dir, catalog)
}

// SaveRecipe inserts or replaces a recipe and flushes the recipes file.
// Every component must reference a resource already in the catalog.
func (r *Repository) SaveRecipe(ctx context.Context, recipe *production.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return err
	}
	for _, q := range append(recipe.Resources.Values(), recipe.Products.Values()...) {
		if _, ok := catalog.Resource(q.ResourceID()); !ok {
			return &production.ErrResourceNotFound{Ref: "@" + q.ResourceID()}
		}
	}
	catalog.PutRecipe(recipe)
	return r.json.saveModified(r.dir, catalog)
}

// FindResource retrieves a resource by id
func (r *Repository) FindResource(ctx context.Context, id string) (*production.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return nil, err
	}
	res, ok := catalog.Resource(id)
	if !ok {
		return nil, &production.ErrResourceNotFound{Ref: "@" + id}
	}
	return res, nil
}

// FindRecipe retrieves a recipe by id
func (r *Repository) FindRecipe(ctx context.Context, id string) (*production.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return nil, err
	}
	rec, ok := catalog.Recipe(id)
	if !ok {
		return nil, &production.ErrRecipeNotFound{Ref: "@" + id}
	}
	return rec, nil
}

// ListResources retrieves all resources ordered by id
func (r *Repository) ListResources(ctx context.Context) ([]*production.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return nil, err
	}
	resources := catalog.Resources()
	sort.Slice(resources, func(i, j int) bool { return resources[i].ID < resources[j].ID })
	return resources, nil
}

// ListRecipes retrieves all recipes ordered by id
func (r *Repository) ListRecipes(ctx context.Context) ([]*production.Recipe, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return nil, err
	}
	recipes := catalog.Recipes()
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes, nil
}

// LoadCatalog returns a snapshot independent of later saves
func (r *Repository) LoadCatalog(ctx context.Context) (*production.Catalog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.load()
	if err != nil {
		return nil, err
	}
	snapshot := production.NewCatalog()
	for _, res := range catalog.Resources() {
		snapshot.PutResource(res)
	}
	for _, rec := range catalog.Recipes() {
		snapshot.PutRecipe(rec)
	}
	snapshot.MarkSaved()
	return snapshot, nil
}
