package helpers

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/factory-planner/internal/adapters/catalogfile"
	"github.com/andrescamacho/factory-planner/internal/adapters/persistence"
	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	planningCommands "github.com/andrescamacho/factory-planner/internal/application/planning/commands"
	"github.com/andrescamacho/factory-planner/internal/application/setup"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

// TestRepositories holds all real repository instances for integration tests
type TestRepositories struct {
	DB          *gorm.DB
	CatalogRepo *persistence.GormCatalogRepository
	Files       *catalogfile.Store
	Mediator    mediator.Mediator
}

// NewTestRepositories creates the catalog repository on the shared test DB and a
// mediator with every handler registered.
// clock is used for time-sensitive operations (usually a MockClock in tests)
func NewTestRepositories(settings planningCommands.PlannerSettings, clock shared.Clock) (*TestRepositories, error) {
	db := SharedTestDB

	catalogRepo := persistence.NewGormCatalogRepository(db)
	files := catalogfile.NewStore("resources.json", "recipes.json")

	registry := setup.NewHandlerRegistry(catalogRepo, files, settings, clock)
	med, err := registry.CreateConfiguredMediator()
	if err != nil {
		return nil, err
	}

	return &TestRepositories{
		DB:          db,
		CatalogRepo: catalogRepo,
		Files:       files,
		Mediator:    med,
	}, nil
}
