package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

// ComponentSpec is one recipe input or output as typed by a user
type ComponentSpec struct {
	Ref      string // Resource name or "@id"
	Quantity float64
}

// AddRecipeCommand represents a command to add a recipe to the catalog
type AddRecipeCommand struct {
	Name       string
	ID         string // Optional: generated from the name when empty
	CycleTime  string // "[[h:]m:]s"
	SourceName string // Optional: shown instead of inputs for extractors
	Resources  []ComponentSpec
	Products   []ComponentSpec
}

// AddRecipeResponse represents the result of adding a recipe
type AddRecipeResponse struct {
	Recipe *production.Recipe
}

// AddRecipeHandler handles the AddRecipe command
type AddRecipeHandler struct {
	catalogRepo production.CatalogRepository
}

// NewAddRecipeHandler creates a new AddRecipeHandler
func NewAddRecipeHandler(catalogRepo production.CatalogRepository) *AddRecipeHandler {
	return &AddRecipeHandler{catalogRepo: catalogRepo}
}

// Handle executes the AddRecipe command
func (h *AddRecipeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddRecipeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddRecipeCommand")
	}

	if strings.TrimSpace(cmd.Name) == "" {
		return nil, shared.NewValidationError("name", "is required")
	}
	cycle, err := production.ParseCycleTime(cmd.CycleTime)
	if err != nil {
		return nil, shared.NewValidationError("cycle_time", err.Error())
	}

	catalog, err := h.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	builder := production.NewRecipeBuilder(catalog).
		Name(cmd.Name).
		ID(cmd.ID).
		SourceName(cmd.SourceName).
		CycleTime(cycle)
	for _, r := range cmd.Resources {
		builder.Resource(r.Ref, r.Quantity)
	}
	for _, p := range cmd.Products {
		builder.Product(p.Ref, p.Quantity)
	}
	recipe, err := builder.Build()
	if err != nil {
		return nil, err
	}

	if err := catalog.AddRecipe(recipe); err != nil {
		return nil, err
	}
	if err := h.catalogRepo.SaveRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Recipe added", map[string]interface{}{
		"recipe":    recipe.ID,
		"inputs":    recipe.Resources.Len(),
		"outputs":   recipe.Products.Len(),
		"cycle_sec": recipe.CycleSeconds(),
	})

	return &AddRecipeResponse{Recipe: recipe}, nil
}
