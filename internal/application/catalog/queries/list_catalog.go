package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// ListCatalogQuery lists resources, recipes or both
type ListCatalogQuery struct {
	Resources bool
	Recipes   bool
	RawOnly   bool // Only list raw resources
}

// ListCatalogResponse represents the result of listing the catalog
type ListCatalogResponse struct {
	Resources []*production.Resource
	Recipes   []*production.Recipe
}

// ListCatalogHandler handles the ListCatalog query
type ListCatalogHandler struct {
	catalogRepo production.CatalogRepository
}

// NewListCatalogHandler creates a new ListCatalogHandler
func NewListCatalogHandler(catalogRepo production.CatalogRepository) *ListCatalogHandler {
	return &ListCatalogHandler{catalogRepo: catalogRepo}
}

// Handle executes the ListCatalog query
func (h *ListCatalogHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListCatalogQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListCatalogQuery")
	}

	response := &ListCatalogResponse{
		Resources: make([]*production.Resource, 0),
		Recipes:   make([]*production.Recipe, 0),
	}

	if query.Resources {
		resources, err := h.catalogRepo.ListResources(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list resources: %w", err)
		}
		for _, r := range resources {
			if query.RawOnly && !r.IsRaw {
				continue
			}
			response.Resources = append(response.Resources, r)
		}
	}

	if query.Recipes {
		recipes, err := h.catalogRepo.ListRecipes(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list recipes: %w", err)
		}
		response.Recipes = recipes
	}

	return response, nil
}
