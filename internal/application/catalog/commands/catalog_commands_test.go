package commands_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/adapters/catalogfile"
	"github.com/andrescamacho/factory-planner/internal/adapters/persistence"
	"github.com/andrescamacho/factory-planner/internal/application/catalog/commands"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
	"github.com/andrescamacho/factory-planner/test/helpers"
)

func newRepo(t *testing.T) *persistence.GormCatalogRepository {
	t.Helper()
	return persistence.NewGormCatalogRepository(helpers.NewTestDB(t))
}

func TestAddResource_StoresResource(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	handler := commands.NewAddResourceHandler(repo)

	// Act
	response, err := handler.Handle(context.Background(), &commands.AddResourceCommand{Name: "Iron Ore", IsRaw: true})

	// Assert
	require.NoError(t, err)
	added := response.(*commands.AddResourceResponse).Resource
	assert.Equal(t, "iron_ore", added.ID)

	stored, err := repo.FindResource(context.Background(), "iron_ore")
	require.NoError(t, err)
	assert.True(t, stored.IsRaw)
}

func TestAddResource_RejectsDuplicateAndBlankName(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	handler := commands.NewAddResourceHandler(repo)
	_, err := handler.Handle(context.Background(), &commands.AddResourceCommand{Name: "Coal"})
	require.NoError(t, err)

	// Act
	_, errDup := handler.Handle(context.Background(), &commands.AddResourceCommand{Name: "Charcoal", ID: "coal"})
	_, errBlank := handler.Handle(context.Background(), &commands.AddResourceCommand{Name: "  "})

	// Assert
	var dup *production.ErrDuplicateKey
	require.ErrorAs(t, errDup, &dup)
	assert.Equal(t, "coal", dup.ID)
	var validation *shared.ValidationError
	require.ErrorAs(t, errBlank, &validation)
	assert.Equal(t, "name", validation.Field)
}

func TestAddRecipe_ResolvesReferences(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	ctx := context.Background()
	resources := commands.NewAddResourceHandler(repo)
	_, err := resources.Handle(ctx, &commands.AddResourceCommand{Name: "Iron Ore", IsRaw: true})
	require.NoError(t, err)
	_, err = resources.Handle(ctx, &commands.AddResourceCommand{Name: "Iron Ingot"})
	require.NoError(t, err)
	handler := commands.NewAddRecipeHandler(repo)

	// Act
	response, err := handler.Handle(ctx, &commands.AddRecipeCommand{
		Name:      "Iron Ingot",
		CycleTime: "0:02",
		Resources: []commands.ComponentSpec{{Ref: "@iron_ore", Quantity: 1}},
		Products:  []commands.ComponentSpec{{Ref: "Iron Ingot", Quantity: 1}},
	})

	// Assert
	require.NoError(t, err)
	recipe := response.(*commands.AddRecipeResponse).Recipe
	assert.Equal(t, "iron_ingot", recipe.ID)
	assert.Equal(t, 30.0, recipe.CyclesPerMinute())

	stored, err := repo.FindRecipe(ctx, "iron_ingot")
	require.NoError(t, err)
	assert.True(t, stored.Equal(recipe))
}

func TestAddRecipe_Errors(t *testing.T) {
	// Arrange
	repo := newRepo(t)
	require.NoError(t, helpers.SeedCatalog(context.Background(), repo, helpers.NewFactoryCatalog()))
	handler := commands.NewAddRecipeHandler(repo)

	tests := []struct {
		name  string
		cmd   *commands.AddRecipeCommand
		check func(t *testing.T, err error)
	}{
		{
			name: "bad cycle time",
			cmd:  &commands.AddRecipeCommand{Name: "Rod", CycleTime: "soon"},
			check: func(t *testing.T, err error) {
				var validation *shared.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, "cycle_time", validation.Field)
			},
		},
		{
			name: "unknown resource",
			cmd: &commands.AddRecipeCommand{
				Name: "Gold Rod", CycleTime: "4",
				Resources: []commands.ComponentSpec{{Ref: "Gold Ingot", Quantity: 1}},
				Products:  []commands.ComponentSpec{{Ref: "@iron_rod", Quantity: 1}},
			},
			check: func(t *testing.T, err error) {
				var notFound *production.ErrResourceNotFound
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, "Gold Ingot", notFound.Ref)
			},
		},
		{
			name: "duplicate id",
			cmd: &commands.AddRecipeCommand{
				Name: "Iron Rod", CycleTime: "4",
				Products: []commands.ComponentSpec{{Ref: "@iron_rod", Quantity: 1}},
			},
			check: func(t *testing.T, err error) {
				var dup *production.ErrDuplicateKey
				require.ErrorAs(t, err, &dup)
				assert.Equal(t, "recipe", dup.Kind)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestExportImport_RoundTripBetweenDatabases(t *testing.T) {
	for _, name := range []string{"catalog.yaml", "catalog.hcl", "data"} {
		t.Run(name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			files := catalogfile.NewStore("resources.json", "recipes.json")
			path := filepath.Join(t.TempDir(), name)

			source := newRepo(t)
			require.NoError(t, helpers.SeedCatalog(ctx, source, helpers.NewFactoryCatalog()))
			target := newRepo(t)

			// Act
			exported, err := commands.NewExportCatalogHandler(source, files).
				Handle(ctx, &commands.ExportCatalogCommand{Path: path})
			require.NoError(t, err)
			imported, err := commands.NewImportCatalogHandler(target, files).
				Handle(ctx, &commands.ImportCatalogCommand{Path: path})
			require.NoError(t, err)

			// Assert
			exportResult := exported.(*commands.ExportCatalogResponse)
			assert.Equal(t, len(helpers.FactoryResources), exportResult.Resources)
			assert.Equal(t, len(helpers.FactoryRecipes), exportResult.Recipes)

			importResult := imported.(*commands.ImportCatalogResponse)
			assert.Equal(t, len(helpers.FactoryResources), importResult.ResourcesAdded)
			assert.Equal(t, len(helpers.FactoryRecipes), importResult.RecipesAdded)

			want, err := source.LoadCatalog(ctx)
			require.NoError(t, err)
			got, err := target.LoadCatalog(ctx)
			require.NoError(t, err)
			for _, recipe := range want.Recipes() {
				stored, ok := got.Recipe(recipe.ID)
				require.True(t, ok, recipe.ID)
				assert.True(t, stored.Equal(recipe), recipe.ID)
			}
		})
	}
}

func TestImport_ConflictsAndOverwrite(t *testing.T) {
	// Arrange
	ctx := context.Background()
	files := catalogfile.NewStore("resources.json", "recipes.json")
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	modified := helpers.NewFactoryCatalog()
	modified.PutResource(production.NewResource("Iron Ore", "iron_ore", false))
	require.NoError(t, files.Write(ctx, path, "", modified))

	repo := newRepo(t)
	require.NoError(t, helpers.SeedCatalog(ctx, repo, helpers.NewFactoryCatalog()))
	handler := commands.NewImportCatalogHandler(repo, files)

	// Act - without overwrite
	_, err := handler.Handle(ctx, &commands.ImportCatalogCommand{Path: path})

	// Assert
	var dup *production.ErrDuplicateKey
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "iron_ore", dup.ID)

	// Act - with overwrite
	response, err := handler.Handle(ctx, &commands.ImportCatalogCommand{Path: path, Overwrite: true})

	// Assert
	require.NoError(t, err)
	result := response.(*commands.ImportCatalogResponse)
	assert.Equal(t, 1, result.ResourcesUpdated)
	assert.Equal(t, 0, result.ResourcesAdded)
	assert.Equal(t, len(helpers.FactoryResources)-1+len(helpers.FactoryRecipes), result.Unchanged)

	ore, err := repo.FindResource(ctx, "iron_ore")
	require.NoError(t, err)
	assert.False(t, ore.IsRaw)
}
