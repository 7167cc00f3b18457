package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/factory-planner/test/bdd/steps"
	"github.com/andrescamacho/factory-planner/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/domain", "features/application", "features/adapters"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// Domain value objects first so their generic assertions win
	steps.InitializeScaledRecipeScenario(sc)
	steps.InitializeFactoryScenario(sc)
	steps.InitializeCatalogFileScenario(sc)
}

func TestMain(m *testing.M) {
	// One in-memory database for every scenario; each scenario truncates it
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	_ = helpers.CloseSharedTestDB()
	os.Exit(code)
}
