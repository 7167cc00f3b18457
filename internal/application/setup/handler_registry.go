package setup

import (
	"reflect"

	catalogCommands "github.com/andrescamacho/factory-planner/internal/application/catalog/commands"
	"github.com/andrescamacho/factory-planner/internal/application/catalog/ports"
	catalogQueries "github.com/andrescamacho/factory-planner/internal/application/catalog/queries"
	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	planningCommands "github.com/andrescamacho/factory-planner/internal/application/planning/commands"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	catalogRepo production.CatalogRepository
	files       ports.CatalogFiles
	settings    planningCommands.PlannerSettings
	clock       shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// files may be nil when catalog import/export is not needed.
func NewHandlerRegistry(
	catalogRepo production.CatalogRepository,
	files ports.CatalogFiles,
	settings planningCommands.PlannerSettings,
	clock shared.Clock,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		catalogRepo: catalogRepo,
		files:       files,
		settings:    settings,
		clock:       clock,
	}
}

// RegisterCatalogHandlers registers all catalog command and query handlers with the mediator
//
// This method registers:
//   - AddResourceCommand → AddResourceHandler
//   - AddRecipeCommand → AddRecipeHandler
//   - FindRecipesQuery → FindRecipesHandler
//   - ListCatalogQuery → ListCatalogHandler
//   - ImportCatalogCommand / ExportCatalogCommand, only when files are available
func (r *HandlerRegistry) RegisterCatalogHandlers(m mediator.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&catalogCommands.AddResourceCommand{}),
		catalogCommands.NewAddResourceHandler(r.catalogRepo),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&catalogCommands.AddRecipeCommand{}),
		catalogCommands.NewAddRecipeHandler(r.catalogRepo),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&catalogQueries.FindRecipesQuery{}),
		catalogQueries.NewFindRecipesHandler(r.catalogRepo),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&catalogQueries.ListCatalogQuery{}),
		catalogQueries.NewListCatalogHandler(r.catalogRepo),
	); err != nil {
		return err
	}

	if r.files == nil {
		return nil
	}

	if err := m.Register(
		reflect.TypeOf(&catalogCommands.ImportCatalogCommand{}),
		catalogCommands.NewImportCatalogHandler(r.catalogRepo, r.files),
	); err != nil {
		return err
	}

	return m.Register(
		reflect.TypeOf(&catalogCommands.ExportCatalogCommand{}),
		catalogCommands.NewExportCatalogHandler(r.catalogRepo, r.files),
	)
}

// RegisterPlanningHandlers registers the PlanProductionCommand handler
func (r *HandlerRegistry) RegisterPlanningHandlers(m mediator.Mediator) error {
	planHandler := planningCommands.NewPlanProductionHandler(r.catalogRepo, r.settings, r.clock)
	return m.Register(
		reflect.TypeOf(&planningCommands.PlanProductionCommand{}),
		planHandler,
	)
}

// RegisterAll registers every handler of the application
func (r *HandlerRegistry) RegisterAll(m mediator.Mediator) error {
	if err := r.RegisterCatalogHandlers(m); err != nil {
		return err
	}
	return r.RegisterPlanningHandlers(m)
}

// CreateConfiguredMediator creates a new mediator with all handlers registered
//
// Middleware must be added by the caller before the first Send.
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()

	if err := r.RegisterAll(m); err != nil {
		return nil, err
	}

	return m, nil
}
