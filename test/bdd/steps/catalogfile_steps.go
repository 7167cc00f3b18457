package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/factory-planner/internal/application/catalog/commands"
	"github.com/andrescamacho/factory-planner/internal/application/catalog/queries"
	planningCommands "github.com/andrescamacho/factory-planner/internal/application/planning/commands"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
	"github.com/andrescamacho/factory-planner/test/helpers"
)

// catalogFileContext moves the catalog between the database and files in a
// scratch directory
type catalogFileContext struct {
	repos    *helpers.TestRepositories
	dir      string
	exported *commands.ExportCatalogResponse
	imported *commands.ImportCatalogResponse
	err      error
}

func (cc *catalogFileContext) reset() error {
	cc.repos = nil
	cc.exported = nil
	cc.imported = nil
	cc.err = nil

	if cc.dir != "" {
		_ = os.RemoveAll(cc.dir)
	}
	dir, err := os.MkdirTemp("", "factory-planner-bdd-*")
	if err != nil {
		return err
	}
	cc.dir = dir

	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	repos, err := helpers.NewTestRepositories(planningCommands.DefaultPlannerSettings(), clock)
	if err != nil {
		return err
	}
	cc.repos = repos
	return nil
}

func (cc *catalogFileContext) path(name string) string {
	return filepath.Join(cc.dir, name)
}

// Given steps

func (cc *catalogFileContext) aStoredFactoryCatalog() error {
	return helpers.SeedCatalog(context.Background(), cc.repos.CatalogRepo, helpers.NewFactoryCatalog())
}

func (cc *catalogFileContext) theCatalogFileContains(name string, body *godog.DocString) error {
	return os.WriteFile(cc.path(name), []byte(body.Content), 0o644)
}

func (cc *catalogFileContext) theStoredCatalogIsCleared() error {
	return helpers.TruncateAllTables()
}

// When steps

func (cc *catalogFileContext) iExportTheCatalogTo(name string) error {
	response, err := cc.repos.Mediator.Send(context.Background(), &commands.ExportCatalogCommand{Path: cc.path(name)})
	cc.err = err
	if err == nil {
		cc.exported = response.(*commands.ExportCatalogResponse)
	}
	return nil
}

func (cc *catalogFileContext) iImportTheCatalogFrom(name string) error {
	return cc.importFrom(name, false)
}

func (cc *catalogFileContext) iImportTheCatalogFromWithOverwrite(name string) error {
	return cc.importFrom(name, true)
}

func (cc *catalogFileContext) importFrom(name string, overwrite bool) error {
	response, err := cc.repos.Mediator.Send(context.Background(), &commands.ImportCatalogCommand{
		Path:      cc.path(name),
		Overwrite: overwrite,
	})
	cc.err = err
	if err == nil {
		cc.imported = response.(*commands.ImportCatalogResponse)
	}
	return nil
}

// Then steps

func (cc *catalogFileContext) theExportShouldContainResourcesAndRecipes(resources, recipes int) error {
	if cc.err != nil {
		return fmt.Errorf("export failed: %w", cc.err)
	}
	if cc.exported.Resources != resources || cc.exported.Recipes != recipes {
		return fmt.Errorf("expected %d resources and %d recipes, got %d and %d",
			resources, recipes, cc.exported.Resources, cc.exported.Recipes)
	}
	return nil
}

func (cc *catalogFileContext) theImportShouldAddResourcesAndRecipes(resources, recipes int) error {
	if cc.err != nil {
		return fmt.Errorf("import failed: %w", cc.err)
	}
	if cc.imported.ResourcesAdded != resources || cc.imported.RecipesAdded != recipes {
		return fmt.Errorf("expected %d resources and %d recipes added, got %d and %d",
			resources, recipes, cc.imported.ResourcesAdded, cc.imported.RecipesAdded)
	}
	return nil
}

func (cc *catalogFileContext) theImportShouldUpdateResourcesAndLeaveUnchanged(updated, unchanged int) error {
	if cc.err != nil {
		return fmt.Errorf("import failed: %w", cc.err)
	}
	if cc.imported.ResourcesUpdated != updated || cc.imported.Unchanged != unchanged {
		return fmt.Errorf("expected %d updated and %d unchanged, got %d and %d",
			updated, unchanged, cc.imported.ResourcesUpdated, cc.imported.Unchanged)
	}
	return nil
}

func (cc *catalogFileContext) theImportShouldFailWith(expected string) error {
	if cc.err == nil {
		return fmt.Errorf("expected the import to fail with '%s'", expected)
	}
	if !strings.Contains(cc.err.Error(), expected) {
		return fmt.Errorf("expected an error containing '%s', got '%s'", expected, cc.err.Error())
	}
	return nil
}

func (cc *catalogFileContext) theStoredCatalogShouldHaveRecipesProducing(count int, product string) error {
	response, err := cc.repos.Mediator.Send(context.Background(), &queries.FindRecipesQuery{Product: product})
	if err != nil {
		return err
	}
	matches := response.(*queries.FindRecipesResponse).Matches
	if len(matches) != count {
		return fmt.Errorf("expected %d recipes producing %s, got %d", count, product, len(matches))
	}
	return nil
}

func InitializeCatalogFileScenario(ctx *godog.ScenarioContext) {
	cc := &catalogFileContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, cc.reset()
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if cc.dir != "" {
			_ = os.RemoveAll(cc.dir)
			cc.dir = ""
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a stored factory catalog$`, cc.aStoredFactoryCatalog)
	ctx.Step(`^the catalog file "([^"]*)" contains:$`, cc.theCatalogFileContains)
	ctx.Step(`^the stored catalog is cleared$`, cc.theStoredCatalogIsCleared)

	// When steps
	ctx.Step(`^I export the catalog to "([^"]*)"$`, cc.iExportTheCatalogTo)
	ctx.Step(`^I import the catalog from "([^"]*)"$`, cc.iImportTheCatalogFrom)
	ctx.Step(`^I import the catalog from "([^"]*)" with overwrite$`, cc.iImportTheCatalogFromWithOverwrite)

	// Then steps
	ctx.Step(`^the export should contain (\d+) resources and (\d+) recipes$`, cc.theExportShouldContainResourcesAndRecipes)
	ctx.Step(`^the import should add (\d+) resources and (\d+) recipes$`, cc.theImportShouldAddResourcesAndRecipes)
	ctx.Step(`^the import should update (\d+) resources? and leave (\d+) unchanged$`, cc.theImportShouldUpdateResourcesAndLeaveUnchanged)
	ctx.Step(`^the import should fail with "([^"]*)"$`, cc.theImportShouldFailWith)
	ctx.Step(`^the stored catalog should have (\d+) recipes? producing "([^"]*)"$`, cc.theStoredCatalogShouldHaveRecipesProducing)
}
