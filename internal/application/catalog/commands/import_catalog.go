package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/factory-planner/internal/application/catalog/ports"
	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// ImportCatalogCommand merges a catalog document into the stored catalog
type ImportCatalogCommand struct {
	Path      string
	Format    string // Optional: json, yaml or hcl; detected from Path when empty
	Overwrite bool   // Replace stored entries that differ instead of failing
}

// ImportCatalogResponse counts what the import did
type ImportCatalogResponse struct {
	ResourcesAdded   int
	ResourcesUpdated int
	RecipesAdded     int
	RecipesUpdated   int
	Unchanged        int
}

// ImportCatalogHandler handles the ImportCatalog command
type ImportCatalogHandler struct {
	catalogRepo production.CatalogRepository
	files       ports.CatalogFiles
}

// NewImportCatalogHandler creates a new ImportCatalogHandler
func NewImportCatalogHandler(catalogRepo production.CatalogRepository, files ports.CatalogFiles) *ImportCatalogHandler {
	return &ImportCatalogHandler{catalogRepo: catalogRepo, files: files}
}

// Handle executes the ImportCatalog command.
// Conflicts are checked for the whole document before anything is written.
func (h *ImportCatalogHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportCatalogCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportCatalogCommand")
	}

	incoming, err := h.files.Read(ctx, cmd.Path, cmd.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog document: %w", err)
	}
	stored, err := h.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	response := &ImportCatalogResponse{}
	var (
		resources []*production.Resource
		recipes   []*production.Recipe
	)

	for _, res := range incoming.Resources() {
		existing, exists := stored.Resource(res.ID)
		switch {
		case !exists:
			response.ResourcesAdded++
		case *existing == *res:
			response.Unchanged++
			continue
		case !cmd.Overwrite:
			return nil, &production.ErrDuplicateKey{Kind: "resource", ID: res.ID}
		default:
			response.ResourcesUpdated++
		}
		resources = append(resources, res)
	}

	for _, rec := range incoming.Recipes() {
		existing, exists := stored.Recipe(rec.ID)
		switch {
		case !exists:
			response.RecipesAdded++
		case existing.Equal(rec):
			response.Unchanged++
			continue
		case !cmd.Overwrite:
			return nil, &production.ErrDuplicateKey{Kind: "recipe", ID: rec.ID}
		default:
			response.RecipesUpdated++
		}
		recipes = append(recipes, rec)
	}

	for _, res := range resources {
		if err := h.catalogRepo.SaveResource(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to save resource: %w", err)
		}
	}
	for _, rec := range recipes {
		if err := h.catalogRepo.SaveRecipe(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to save recipe: %w", err)
		}
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Catalog imported", map[string]interface{}{
		"path":              cmd.Path,
		"resources_added":   response.ResourcesAdded,
		"resources_updated": response.ResourcesUpdated,
		"recipes_added":     response.RecipesAdded,
		"recipes_updated":   response.RecipesUpdated,
		"unchanged":         response.Unchanged,
	})

	return response, nil
}
