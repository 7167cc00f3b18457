package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

// FindRecipesQuery looks recipes up by what they produce or by their own name or id.
// Exactly one of Product and Recipe must be set.
type FindRecipesQuery struct {
	Product string // Resource name or "@id": every recipe producing it
	Recipe  string // Recipe name or "@id": that single recipe
}

// RecipeMatch is one found recipe. Production is set for product searches.
type RecipeMatch struct {
	Recipe     *production.Recipe
	Production *production.TargetedProduction
}

// FindRecipesResponse represents the result of a recipe search
type FindRecipesResponse struct {
	Product *production.Resource
	Matches []RecipeMatch
}

// FindRecipesHandler handles the FindRecipes query
type FindRecipesHandler struct {
	catalogRepo production.CatalogRepository
}

// NewFindRecipesHandler creates a new FindRecipesHandler
func NewFindRecipesHandler(catalogRepo production.CatalogRepository) *FindRecipesHandler {
	return &FindRecipesHandler{catalogRepo: catalogRepo}
}

// Handle executes the FindRecipes query
func (h *FindRecipesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*FindRecipesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FindRecipesQuery")
	}

	if (query.Product == "") == (query.Recipe == "") {
		return nil, shared.NewValidationError("query", "exactly one of product or recipe must be provided")
	}

	catalog, err := h.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if query.Recipe != "" {
		recipe, err := catalog.ResolveRecipe(query.Recipe)
		if err != nil {
			return nil, err
		}
		return &FindRecipesResponse{Matches: []RecipeMatch{{Recipe: recipe}}}, nil
	}

	product, err := catalog.ResolveResource(query.Product)
	if err != nil {
		return nil, err
	}
	recipes := catalog.FindRecipesByProduct(product)
	matches := make([]RecipeMatch, 0, len(recipes))
	for _, recipe := range recipes {
		matches = append(matches, RecipeMatch{
			Recipe:     recipe,
			Production: recipe.MustProduction(product),
		})
	}

	return &FindRecipesResponse{Product: product, Matches: matches}, nil
}
