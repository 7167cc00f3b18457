package production

// Catalog is an in-memory snapshot of resources and recipes.
//
// Lookups are by id (map) or by name (linear scan, first match in insertion order).
// FindRecipesByProduct returns recipes in insertion order, which keeps tree
// building deterministic for a given snapshot.
type Catalog struct {
	resources     map[string]*Resource
	resourceOrder []string
	recipes       map[string]*Recipe
	recipeOrder   []string

	modResources bool
	modRecipes   bool
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		resources: make(map[string]*Resource),
		recipes:   make(map[string]*Recipe),
	}
}

// AddResource registers a resource; ids must be unique
func (c *Catalog) AddResource(resource *Resource) error {
	if _, exists := c.resources[resource.ID]; exists {
		return &ErrDuplicateKey{Kind: "resource", ID: resource.ID}
	}
	c.resources[resource.ID] = resource
	c.resourceOrder = append(c.resourceOrder, resource.ID)
	c.modResources = true
	return nil
}

// AddRecipe registers a recipe; ids must be unique
func (c *Catalog) AddRecipe(recipe *Recipe) error {
	if _, exists := c.recipes[recipe.ID]; exists {
		return &ErrDuplicateKey{Kind: "recipe", ID: recipe.ID}
	}
	c.recipes[recipe.ID] = recipe
	c.recipeOrder = append(c.recipeOrder, recipe.ID)
	c.modRecipes = true
	return nil
}

// Resource looks a resource up by id
func (c *Catalog) Resource(id string) (*Resource, bool) {
	r, ok := c.resources[id]
	return r, ok
}

// Recipe looks a recipe up by id
func (c *Catalog) Recipe(id string) (*Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}

// ResourceByName returns the first resource with the given display name
func (c *Catalog) ResourceByName(name string) (*Resource, bool) {
	for _, id := range c.resourceOrder {
		if r := c.resources[id]; r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// RecipeByName returns the first recipe with the given display name
func (c *Catalog) RecipeByName(name string) (*Recipe, bool) {
	for _, id := range c.recipeOrder {
		if r := c.recipes[id]; r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// ResolveResource resolves a name or "@id" reference
func (c *Catalog) ResolveResource(ref string) (*Resource, error) {
	parsed, err := ParseResourceRef(ref)
	if err != nil {
		return nil, err
	}
	var (
		res *Resource
		ok  bool
	)
	if parsed.IsID() {
		res, ok = c.Resource(parsed.ID)
	} else {
		res, ok = c.ResourceByName(parsed.Name)
	}
	if !ok {
		return nil, &ErrResourceNotFound{Ref: ref}
	}
	return res, nil
}

// ResolveRecipe resolves a name or "@id" reference
func (c *Catalog) ResolveRecipe(ref string) (*Recipe, error) {
	parsed, err := ParseResourceRef(ref)
	if err != nil {
		return nil, err
	}
	var (
		rec *Recipe
		ok  bool
	)
	if parsed.IsID() {
		rec, ok = c.Recipe(parsed.ID)
	} else {
		rec, ok = c.RecipeByName(parsed.Name)
	}
	if !ok {
		return nil, &ErrRecipeNotFound{Ref: ref}
	}
	return rec, nil
}

// FindRecipesByProduct returns every recipe listing product among its outputs
func (c *Catalog) FindRecipesByProduct(product *Resource) []*Recipe {
	results := make([]*Recipe, 0)
	if product == nil {
		return results
	}
	for _, id := range c.recipeOrder {
		if r := c.recipes[id]; r.Produces(product.ID) {
			results = append(results, r)
		}
	}
	return results
}

// Resources returns all resources in insertion order
func (c *Catalog) Resources() []*Resource {
	out := make([]*Resource, 0, len(c.resourceOrder))
	for _, id := range c.resourceOrder {
		out = append(out, c.resources[id])
	}
	return out
}

// Recipes returns all recipes in insertion order
func (c *Catalog) Recipes() []*Recipe {
	out := make([]*Recipe, 0, len(c.recipeOrder))
	for _, id := range c.recipeOrder {
		out = append(out, c.recipes[id])
	}
	return out
}

// ResourcesModified reports whether resources were added since the last MarkSaved
func (c *Catalog) ResourcesModified() bool { return c.modResources }

// RecipesModified reports whether recipes were added since the last MarkSaved
func (c *Catalog) RecipesModified() bool { return c.modRecipes }

// MarkSaved clears the modification flags
func (c *Catalog) MarkSaved() {
	c.modResources = false
	c.modRecipes = false
}

// PutResource inserts or replaces a resource. A replaced resource keeps its position.
func (c *Catalog) PutResource(resource *Resource) {
	if _, exists := c.resources[resource.ID]; !exists {
		c.resourceOrder = append(c.resourceOrder, resource.ID)
	}
	c.resources[resource.ID] = resource
	c.modResources = true
}

// PutRecipe inserts or replaces a recipe. A replaced recipe keeps its position.
func (c *Catalog) PutRecipe(recipe *Recipe) {
	if _, exists := c.recipes[recipe.ID]; !exists {
		c.recipeOrder = append(c.recipeOrder, recipe.ID)
	}
	c.recipes[recipe.ID] = recipe
	c.modRecipes = true
}
