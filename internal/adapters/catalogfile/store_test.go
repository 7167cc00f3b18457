package catalogfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/adapters/catalogfile"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
	"github.com/andrescamacho/factory-planner/test/helpers"
)

func newStore() *catalogfile.Store {
	return catalogfile.NewStore("resources.json", "recipes.json")
}

func assertSameCatalog(t *testing.T, want, got *production.Catalog) {
	t.Helper()
	require.Len(t, got.Resources(), len(want.Resources()))
	for i, res := range want.Resources() {
		assert.Equal(t, *res, *got.Resources()[i])
	}
	require.Len(t, got.Recipes(), len(want.Recipes()))
	for i, rec := range want.Recipes() {
		assert.True(t, rec.Equal(got.Recipes()[i]), "recipe %s differs", rec.ID)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		format string
	}{
		{name: "json directory", path: "data"},
		{name: "yaml by extension", path: "catalog.yml"},
		{name: "hcl by extension", path: "catalog.hcl"},
		{name: "explicit yaml", path: "catalog.txt", format: "YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			store := newStore()
			want := helpers.NewFactoryCatalog()
			path := filepath.Join(t.TempDir(), tt.path)

			// Act
			require.NoError(t, store.Write(ctx, path, tt.format, want))
			got, err := store.Read(ctx, path, tt.format)

			// Assert
			require.NoError(t, err)
			assertSameCatalog(t, want, got)
			assert.False(t, got.ResourcesModified())
			assert.False(t, got.RecipesModified())

			mine, ok := got.Recipe("iron_ore_mine")
			require.True(t, ok)
			assert.Equal(t, "Iron Node", mine.SourceName)
		})
	}
}

func TestStore_ReadHandWrittenHCL(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "small.hcl")
	content := `
resource "iron_ore" {
  name = "Iron Ore"
  raw  = true
}

resource "iron_ingot" {
  name = "Iron Ingot"
}

recipe "iron_ingot" {
  name       = "Iron Ingot"
  cycle_secs = 2
  input "iron_ore" { quantity = 1 }
  output "iron_ingot" { quantity = 1 }
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Act
	catalog, err := newStore().Read(context.Background(), path, "")

	// Assert
	require.NoError(t, err)
	ore, ok := catalog.Resource("iron_ore")
	require.True(t, ok)
	assert.True(t, ore.IsRaw)

	ingot, ok := catalog.Recipe("iron_ingot")
	require.True(t, ok)
	assert.Equal(t, 30.0, ingot.CyclesPerMinute())
	assert.Same(t, ore, ingot.Resources.Values()[0].Resource)
}

func TestStore_ReadErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("unknown component id", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		content := `
resources:
  - {name: Iron Ingot, id: iron_ingot}
recipes:
  - name: Iron Ingot
    id: iron_ingot
    cycle_secs: 2
    resources: [{id: iron_ore, quantity: 1}]
    products: [{id: iron_ingot, quantity: 1}]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := newStore().Read(ctx, path, "")

		var formatErr *shared.CatalogFormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "iron_ingot", formatErr.Entry)
		assert.Contains(t, formatErr.Error(), "unknown resource id iron_ore")
	})

	t.Run("json format on a file", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.json")
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

		_, err := newStore().Read(ctx, path, "")

		assert.ErrorContains(t, err, "data directories")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := newStore().Read(ctx, dir, "toml")

		assert.ErrorContains(t, err, `unknown catalog format "toml"`)
	})

	t.Run("missing data directory is empty", func(t *testing.T) {
		catalog, err := newStore().Read(ctx, filepath.Join(dir, "fresh"), "json")

		require.NoError(t, err)
		assert.Empty(t, catalog.Resources())
		assert.Empty(t, catalog.Recipes())
	})
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want catalogfile.Format
	}{
		{"catalog.yaml", catalogfile.FormatYAML},
		{"CATALOG.YML", catalogfile.FormatYAML},
		{"world.hcl", catalogfile.FormatHCL},
		{"./data", catalogfile.FormatJSON},
		{"catalog.json", catalogfile.FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, catalogfile.DetectFormat(tt.path))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := catalogfile.ParseFormat("HCL")
	require.NoError(t, err)
	assert.Equal(t, catalogfile.FormatHCL, f)

	f, err = catalogfile.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, catalogfile.Format(""), f)

	_, err = catalogfile.ParseFormat("xml")
	assert.Error(t, err)
}
