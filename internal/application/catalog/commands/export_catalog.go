package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factory-planner/internal/application/catalog/ports"
	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// ExportCatalogCommand writes the stored catalog to a document
type ExportCatalogCommand struct {
	Path   string
	Format string // Optional: json, yaml or hcl; detected from Path when empty
}

// ExportCatalogResponse reports what was written
type ExportCatalogResponse struct {
	Resources int
	Recipes   int
}

// ExportCatalogHandler handles the ExportCatalog command
type ExportCatalogHandler struct {
	catalogRepo production.CatalogRepository
	files       ports.CatalogFiles
}

// NewExportCatalogHandler creates a new ExportCatalogHandler
func NewExportCatalogHandler(catalogRepo production.CatalogRepository, files ports.CatalogFiles) *ExportCatalogHandler {
	return &ExportCatalogHandler{catalogRepo: catalogRepo, files: files}
}

// Handle executes the ExportCatalog command
func (h *ExportCatalogHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ExportCatalogCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ExportCatalogCommand")
	}

	catalog, err := h.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := h.files.Write(ctx, cmd.Path, cmd.Format, catalog); err != nil {
		return nil, fmt.Errorf("failed to write catalog document: %w", err)
	}

	response := &ExportCatalogResponse{
		Resources: len(catalog.Resources()),
		Recipes:   len(catalog.Recipes()),
	}
	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Catalog exported", map[string]interface{}{
		"path":      cmd.Path,
		"resources": response.Resources,
		"recipes":   response.Recipes,
	})
	return response, nil
}
