package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/application/planning/services"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
	"github.com/andrescamacho/factory-planner/test/helpers"
)

func buildFactoryTree(t *testing.T, recipeID string, rpm float64, opts ...services.TreeBuilderOption) *planning.ProductionTree {
	t.Helper()
	catalog := helpers.NewFactoryCatalog()
	recipe, ok := catalog.Recipe(recipeID)
	require.True(t, ok, recipeID)
	product, ok := recipe.NthProduct(0)
	require.True(t, ok)

	tree, err := services.NewTreeBuilder(catalog, opts...).Build(recipe, product, rpm)
	require.NoError(t, err)
	return tree
}

// altFor returns the first AltNode under node producing productID
func altFor(t *testing.T, node planning.Node, productID string) *planning.AltNode {
	t.Helper()
	var found *planning.AltNode
	planning.Walk(node, func(n planning.Node) bool {
		if alt, ok := n.(*planning.AltNode); ok && found == nil && alt.Product().ID == productID {
			found = alt
		}
		return found == nil
	})
	require.NotNil(t, found, "no alternatives for %s", productID)
	return found
}

func TestTreeBuilder_BuildsActivePathWithDemandedRates(t *testing.T) {
	// Act
	tree := buildFactoryTree(t, "smart_plating", 2)

	// Assert
	root := tree.Root()
	assert.Equal(t, 0, root.Depth())
	assert.Equal(t, 2.0, root.RPM())
	assert.True(t, root.Expanded())
	require.Len(t, root.Children(), 2)

	rip := altFor(t, root, "reinforced_plate")
	assert.Equal(t, 1, rip.Len())
	assert.InDelta(t, 2.0, rip.Active().RPM(), 1e-9)

	screws := altFor(t, rip, "screws")
	require.Equal(t, 2, screws.Len())
	assert.Equal(t, "screws", screws.Active().Recipe().ID)
	assert.InDelta(t, 24.0, screws.Demand().Quantity, 1e-9)
	for _, candidate := range screws.Candidates() {
		assert.InDelta(t, 24.0, candidate.RPM(), 1e-9, "every candidate is sized to the demand")
		assert.Equal(t, 2, candidate.Depth())
	}
	assert.Empty(t, tree.TruncatedNodes())
	assert.Equal(t, 5, tree.Depth())
}

func TestTreeBuilder_ChildRatesMatchParentRequirements(t *testing.T) {
	// Arrange
	tree := buildFactoryTree(t, "smart_plating", 6)

	// Act & Assert
	planning.Walk(tree.Root(), func(n planning.Node) bool {
		parent, ok := n.(*planning.ProdNode)
		if !ok || !parent.Expanded() {
			return true
		}
		requirements := parent.Requirements()
		children := parent.Children()
		require.Len(t, children, len(requirements))
		for i, child := range children {
			switch c := child.(type) {
			case *planning.AltNode:
				assert.InDelta(t, requirements[i].Quantity, c.Demand().Quantity, 1e-9)
				for _, candidate := range c.Candidates() {
					assert.Equal(t, parent.Depth()+1, candidate.Depth())
				}
			case *planning.EndNode:
				assert.InDelta(t, requirements[i].Quantity, c.Quantity().Quantity, 1e-9)
			}
		}
		return true
	})
}

func TestTreeBuilder_PrefersHighestThroughput(t *testing.T) {
	// Arrange
	catalog := production.NewCatalog()
	x := production.NewResource("X", "x", false)
	y := production.NewResource("Y", "y", false)
	require.NoError(t, catalog.AddResource(x))
	require.NoError(t, catalog.AddResource(y))

	r1, err := production.NewRecipe("R1", "r1", nil, []production.ResourceQuantity{x.N(1)}, 20*time.Second)
	require.NoError(t, err)
	r2, err := production.NewRecipe("R2", "r2", nil, []production.ResourceQuantity{x.N(1)}, 12*time.Second)
	require.NoError(t, err)
	target, err := production.NewRecipe("Y", "y", []production.ResourceQuantity{x.N(1)}, []production.ResourceQuantity{y.N(1)}, 60*time.Second)
	require.NoError(t, err)
	for _, r := range []*production.Recipe{r1, r2, target} {
		require.NoError(t, catalog.AddRecipe(r))
	}

	// Act
	tree, err := services.NewTreeBuilder(catalog).Build(target, y, 1)

	// Assert
	require.NoError(t, err)
	alt := altFor(t, tree.Root(), "x")
	assert.Equal(t, 0, alt.ActiveIndex())
	assert.Equal(t, "r2", alt.Active().Recipe().ID)
	assert.Equal(t, 5.0, alt.Active().Production().BaseRPM)
	assert.Equal(t, 3.0, alt.Candidates()[1].Production().BaseRPM)
}

func TestTreeBuilder_CatalogOrder(t *testing.T) {
	// Arrange
	cmp, err := planning.Comparator(planning.OrderCatalog)
	require.NoError(t, err)

	// Act
	tree := buildFactoryTree(t, "rotor", 4, services.WithComparator(cmp))

	// Assert
	assert.Equal(t, "screws", altFor(t, tree.Root(), "screws").Active().Recipe().ID)
}

func TestTreeBuilder_RawResourcesAlwaysEndAsSource(t *testing.T) {
	// Arrange
	catalog := helpers.NewFactoryCatalog()
	coal := production.NewResource("Coal", "coal", true)
	steel := production.NewResource("Steel Ingot", "steel_ingot", false)
	require.NoError(t, catalog.AddResource(coal))
	require.NoError(t, catalog.AddResource(steel))
	ore, _ := catalog.Resource("iron_ore")
	recipe, err := production.NewRecipe("Steel Ingot", "",
		[]production.ResourceQuantity{ore.N(3), coal.N(3)},
		[]production.ResourceQuantity{steel.N(3)},
		4*time.Second)
	require.NoError(t, err)

	// Act
	tree, err := services.NewTreeBuilder(catalog).Build(recipe, steel, 45)

	// Assert
	require.NoError(t, err)
	children := tree.Root().Children()
	require.Len(t, children, 2)
	for _, child := range children {
		end, ok := child.(*planning.EndNode)
		require.True(t, ok, "raw requirement with or without an extractor recipe")
		assert.True(t, end.IsSource())
		assert.InDelta(t, 45.0, end.Quantity().Quantity, 1e-9)
	}
}

func TestTreeBuilder_UnproducedResourceIsUnresolved(t *testing.T) {
	// Arrange
	catalog := helpers.NewFactoryCatalog()
	wire := production.NewResource("Wire", "wire", false)
	cable := production.NewResource("Cable", "cable", false)
	require.NoError(t, catalog.AddResource(wire))
	require.NoError(t, catalog.AddResource(cable))
	recipe, err := production.NewRecipe("Cable", "",
		[]production.ResourceQuantity{wire.N(2)},
		[]production.ResourceQuantity{cable.N(1)},
		2*time.Second)
	require.NoError(t, err)

	// Act
	tree, err := services.NewTreeBuilder(catalog).Build(recipe, cable, 30)

	// Assert
	require.NoError(t, err)
	ends := tree.ActiveEnds()
	require.Len(t, ends, 1)
	assert.True(t, ends[0].IsUnresolved())
	assert.Equal(t, "wire", ends[0].Resource().ID)
	assert.InDelta(t, 60.0, ends[0].Quantity().Quantity, 1e-9)
}

func TestTreeBuilder_DepthBound(t *testing.T) {
	for _, maxDepth := range []int{0, 1, 2, 3} {
		// Act
		tree := buildFactoryTree(t, "smart_plating", 2, services.WithMaxDepth(maxDepth))

		// Assert
		assert.Equal(t, maxDepth, tree.MaxDepth())
		planning.Walk(tree.Root(), func(n planning.Node) bool {
			if p, ok := n.(*planning.ProdNode); ok {
				assert.LessOrEqual(t, p.Depth(), maxDepth+1)
				assert.Equal(t, p.Depth() <= maxDepth, p.Expanded(), "depth %d, bound %d", p.Depth(), maxDepth)
			}
			return true
		})
		assert.True(t, tree.ActiveTruncated(), "bound %d", maxDepth)
	}
}

func TestTreeBuilder_CycleIsBoundedByDepthWithoutDetection(t *testing.T) {
	// Arrange
	catalog := helpers.NewLoopCatalog()
	condense, _ := catalog.Recipe("condense")
	water, _ := catalog.Resource("water")

	// Act
	tree, err := services.NewTreeBuilder(catalog, services.WithMaxDepth(4)).Build(condense, water, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 6, tree.Depth())
	truncated := tree.TruncatedNodes()
	require.Len(t, truncated, 1)
	assert.Equal(t, 5, truncated[0].Depth())
	assert.Empty(t, tree.ActiveEnds())
}

func TestTreeBuilder_CycleDetection(t *testing.T) {
	// Arrange
	catalog := helpers.NewLoopCatalog()
	condense, _ := catalog.Recipe("condense")
	water, _ := catalog.Resource("water")

	// Act
	tree, err := services.NewTreeBuilder(catalog, services.WithCycleDetection(true)).Build(condense, water, 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Depth())
	ends := tree.ActiveEnds()
	require.Len(t, ends, 1)
	assert.True(t, ends[0].IsCyclic())
	assert.Equal(t, "water", ends[0].Resource().ID)
	assert.Empty(t, tree.TruncatedNodes())
}

func TestTreeBuilder_RejectsInvalidRequests(t *testing.T) {
	catalog := helpers.NewFactoryCatalog()
	rod, _ := catalog.Recipe("iron_rod")
	rodProduct, _ := catalog.Resource("iron_rod")
	ore, _ := catalog.Resource("iron_ore")

	t.Run("non-positive rpm", func(t *testing.T) {
		_, err := services.NewTreeBuilder(catalog).Build(rod, rodProduct, 0)
		var validation *shared.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "rpm", validation.Field)
	})

	t.Run("negative depth", func(t *testing.T) {
		_, err := services.NewTreeBuilder(catalog, services.WithMaxDepth(-1)).Build(rod, rodProduct, 15)
		var validation *shared.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "max_depth", validation.Field)
	})

	t.Run("foreign product", func(t *testing.T) {
		_, err := services.NewTreeBuilder(catalog).Build(rod, ore, 15)
		var notProduced *production.ErrProductNotProduced
		require.ErrorAs(t, err, &notProduced)
		assert.Equal(t, "iron_ore", notProduced.ProductID)
	})
}
