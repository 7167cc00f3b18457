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

// AddResourceCommand represents a command to add a resource to the catalog
type AddResourceCommand struct {
	Name  string
	ID    string // Optional: generated from the name when empty
	IsRaw bool
}

// AddResourceResponse represents the result of adding a resource
type AddResourceResponse struct {
	Resource *production.Resource
}

// AddResourceHandler handles the AddResource command
type AddResourceHandler struct {
	catalogRepo production.CatalogRepository
}

// NewAddResourceHandler creates a new AddResourceHandler
func NewAddResourceHandler(catalogRepo production.CatalogRepository) *AddResourceHandler {
	return &AddResourceHandler{catalogRepo: catalogRepo}
}

// Handle executes the AddResource command
func (h *AddResourceHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*AddResourceCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddResourceCommand")
	}

	if strings.TrimSpace(cmd.Name) == "" {
		return nil, shared.NewValidationError("name", "is required")
	}

	resource := production.NewResource(cmd.Name, cmd.ID, cmd.IsRaw)

	catalog, err := h.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := catalog.AddResource(resource); err != nil {
		return nil, err
	}

	if err := h.catalogRepo.SaveResource(ctx, resource); err != nil {
		return nil, fmt.Errorf("failed to save resource: %w", err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Resource added", map[string]interface{}{
		"resource": resource.ID,
		"raw":      resource.IsRaw,
	})

	return &AddResourceResponse{Resource: resource}, nil
}
