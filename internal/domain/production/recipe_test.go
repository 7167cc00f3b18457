package production_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
)

func newIngotRecipe(t *testing.T) (*production.Recipe, *production.Resource, *production.Resource) {
	t.Helper()
	ore := production.NewResource("Iron Ore", "", true)
	ingot := production.NewResource("Iron Ingot", "", false)
	recipe, err := production.NewRecipe("Iron Ingot", "",
		[]production.ResourceQuantity{ore.N(1)},
		[]production.ResourceQuantity{ingot.N(1)},
		2*time.Second)
	require.NoError(t, err)
	return recipe, ore, ingot
}

func TestNewRecipe_GeneratesID(t *testing.T) {
	// Arrange & Act
	recipe, _, _ := newIngotRecipe(t)

	// Assert
	assert.Equal(t, "iron_ingot", recipe.ID)
	assert.Equal(t, 2.0, recipe.CycleSeconds())
	assert.Equal(t, 30.0, recipe.CyclesPerMinute())
}

func TestNewRecipe_Validation(t *testing.T) {
	ore := production.NewResource("Iron Ore", "", true)
	ingot := production.NewResource("Iron Ingot", "", false)

	tests := []struct {
		name      string
		recipe    string
		resources []production.ResourceQuantity
		products  []production.ResourceQuantity
		cycle     time.Duration
		field     string
	}{
		{"empty name", " ", nil, []production.ResourceQuantity{ingot.N(1)}, time.Second, "name"},
		{"zero cycle", "Ingot", nil, []production.ResourceQuantity{ingot.N(1)}, 0, "cycle_time"},
		{"no products", "Ingot", []production.ResourceQuantity{ore.N(1)}, nil, time.Second, "products"},
		{"zero product", "Ingot", nil, []production.ResourceQuantity{ingot.N(0)}, time.Second, "products"},
		{"negative input", "Ingot", []production.ResourceQuantity{ore.N(-1)}, []production.ResourceQuantity{ingot.N(1)}, time.Second, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := production.NewRecipe(tt.recipe, "", tt.resources, tt.products, tt.cycle)

			// Assert
			var validation *shared.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestRecipe_ProductionForRPM(t *testing.T) {
	// Arrange
	recipe, ore, ingot := newIngotRecipe(t)

	// Act
	prod, ok := recipe.Production(ingot)
	require.True(t, ok)
	at60 := prod.ForRPM(60)

	// Assert
	assert.Equal(t, 30.0, prod.BaseRPM)
	require.Len(t, at60.Resources, 1)
	assert.Same(t, ore, at60.Resources[0].Resource)
	assert.InDelta(t, 60.0, at60.Resources[0].Quantity, 1e-9)
	assert.Empty(t, at60.Byproducts)
	assert.InDelta(t, 2.0, prod.StationsFor(60), 1e-9)
}

func TestRecipe_ProductionIsLinear(t *testing.T) {
	// Arrange
	ingot := production.NewResource("Iron Ingot", "", false)
	plate := production.NewResource("Iron Plate", "", false)
	recipe, err := production.NewRecipe("Iron Plate", "",
		[]production.ResourceQuantity{ingot.N(3)},
		[]production.ResourceQuantity{plate.N(2)},
		6*time.Second)
	require.NoError(t, err)
	prod := recipe.MustProduction(plate)

	for _, k := range []float64{0.5, 1, 3, 12.5} {
		// Act
		base := prod.ForRPM(20)
		scaled := prod.ForRPM(20 * k)

		// Assert
		assert.InDelta(t, base.Resources[0].Quantity*k, scaled.Resources[0].Quantity, 1e-9, "k=%v", k)
	}
	assert.InDelta(t, 1.5, prod.Resources[0].Quantity, 1e-9, "inputs are per unit of product")
}

func TestRecipe_ProductionNormalisesByproducts(t *testing.T) {
	// Arrange
	oil := production.NewResource("Crude Oil", "", true)
	plastic := production.NewResource("Plastic", "", false)
	residue := production.NewResource("Heavy Oil Residue", "", false)
	recipe, err := production.NewRecipe("Plastic", "",
		[]production.ResourceQuantity{oil.N(3)},
		[]production.ResourceQuantity{plastic.N(2), residue.N(1)},
		6*time.Second)
	require.NoError(t, err)

	// Act
	forPlastic := recipe.MustProduction(plastic)
	forResidue := recipe.MustProduction(residue)

	// Assert
	assert.Equal(t, 20.0, forPlastic.BaseRPM)
	require.Len(t, forPlastic.Byproducts, 1)
	assert.Equal(t, "heavy_oil_residue", forPlastic.Byproducts[0].ResourceID())
	assert.InDelta(t, 0.5, forPlastic.Byproducts[0].Quantity, 1e-9)

	assert.Equal(t, 10.0, forResidue.BaseRPM)
	assert.InDelta(t, 3.0, forResidue.Resources[0].Quantity, 1e-9)
	assert.InDelta(t, 2.0, forResidue.Byproducts[0].Quantity, 1e-9)
}

func TestRecipe_ProductionOfForeignProduct(t *testing.T) {
	// Arrange
	recipe, ore, _ := newIngotRecipe(t)

	// Act
	_, ok := recipe.Production(ore)
	_, err := recipe.ScaleFactorForProduct(ore, 10)

	// Assert
	assert.False(t, ok)
	var notProduced *production.ErrProductNotProduced
	require.ErrorAs(t, err, &notProduced)
	assert.Equal(t, "iron_ingot", notProduced.RecipeID)
	assert.Panics(t, func() { recipe.MustProduction(ore) })
}

func TestRecipe_Scaled(t *testing.T) {
	// Arrange
	recipe, _, _ := newIngotRecipe(t)

	// Act
	components := recipe.Scaled(2.5)

	// Assert
	ore, ok := components.Resources.Get("iron_ore")
	require.True(t, ok)
	assert.InDelta(t, 75.0, ore.Quantity, 1e-9)
	ingot, ok := components.Products.Get("iron_ingot")
	require.True(t, ok)
	assert.InDelta(t, 75.0, ingot.Quantity, 1e-9)

	factor, err := recipe.ScaleFactorForProduct(ingot.Resource, 45)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, factor, 1e-9)
}

func TestRecipe_String(t *testing.T) {
	// Arrange
	recipe, _, _ := newIngotRecipe(t)
	ore := production.NewResource("Iron Ore", "", true)
	mine, err := production.NewRecipe("Iron Mine", "", nil, []production.ResourceQuantity{ore.N(1)}, time.Second)
	require.NoError(t, err)
	mine.SourceName = "Iron Node"

	// Act & Assert
	assert.Equal(t, `Recipe "Iron Ingot": [1.0x(Iron Ore) -> 1.0x(Iron Ingot)]`, recipe.String())
	assert.Equal(t, `Recipe "Iron Ingot": [30.0x(Iron Ore) -> 30.0x(Iron Ingot) RPM]`, recipe.StringForRPM())
	assert.Equal(t, `Recipe "Iron Mine": [Iron Node -> 1.0x(Iron Ore)]`, mine.String())
}

func TestTargetedProduction_StringForRPM(t *testing.T) {
	// Arrange
	recipe, _, ingot := newIngotRecipe(t)

	// Act
	s := recipe.MustProduction(ingot).StringForRPM(60)

	// Assert
	assert.Equal(t, `2.0x "Iron Ingot": [60.0x(Iron Ore) -> 60.0x(Iron Ingot) p.m.]`, s)
}

func TestResourceQuantities_AddMergesAndKeepsOrder(t *testing.T) {
	// Arrange
	ore := production.NewResource("Iron Ore", "", true)
	coal := production.NewResource("Coal", "", true)

	// Act
	rq := production.NewResourceQuantities(ore.N(1), coal.N(2), ore.N(3))

	// Assert
	assert.Equal(t, []string{"iron_ore", "coal"}, rq.Keys())
	got, ok := rq.Get("iron_ore")
	require.True(t, ok)
	assert.Equal(t, 4.0, got.Quantity)
	assert.Equal(t, 6.0, rq.Total())
	assert.True(t, rq.Scale(2).Equal(production.NewResourceQuantities(coal.N(4), ore.N(8))))
}

func TestParseResourceRef(t *testing.T) {
	tests := []struct {
		input   string
		wantID  string
		wantErr bool
	}{
		{input: "Iron Ore"},
		{input: "@iron_ore", wantID: "iron_ore"},
		{input: "@", wantErr: true},
		{input: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := production.ParseResourceRef(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.input, ref.String())
		})
	}
}
