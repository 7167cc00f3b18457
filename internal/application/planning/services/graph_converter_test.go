package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/application/planning/services"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
)

func TestGraphConverter_MergesRepeatedRecipes(t *testing.T) {
	// Arrange
	tree := buildFactoryTree(t, "smart_plating", 2)

	// Act
	graph := services.NewGraphConverter(0).ConvertToGraph(tree)

	// Assert
	assert.Equal(t, 7, graph.Len())
	assert.Equal(t, "smart_plating", graph.Root().RecipeID())
	assert.Equal(t, 0, graph.Root().ConsumerCount())

	screws, ok := graph.Node("screws")
	require.True(t, ok)
	assert.Equal(t, 2, screws.ConsumerCount())
	_, ok = graph.Node("cast_screws")
	assert.False(t, ok, "inactive candidates stay out of the graph")

	ingot, _ := graph.Node("iron_ingot")
	assert.Equal(t, 2, ingot.ConsumerCount())
	assert.Equal(t, 3, ingot.Level())
	assert.Equal(t, planning.DefaultScaleMaxDepth, graph.ScaleMaxDepth())
}

func TestGraphConverter_RootScaleFollowsTargetRate(t *testing.T) {
	// Arrange
	tree := buildFactoryTree(t, "iron_rod", 37.5)

	// Act
	graph := services.NewGraphConverter(5).ConvertToGraph(tree)

	// Assert
	assert.InDelta(t, 2.5, graph.Root().Scale(), 1e-9)
	ingot, _ := graph.Node("iron_ingot")
	assert.Equal(t, 1.0, ingot.Scale(), "producers start at one station")
	assert.Equal(t, 5, graph.ScaleMaxDepth())
}

func TestGraphConverter_SharedRecipeScaledOnCombinedDemand(t *testing.T) {
	// Arrange
	tree := buildFactoryTree(t, "smart_plating", 2)
	graph := services.NewGraphConverter(0).ConvertToGraph(tree)

	// Act
	services.NewScalePropagator(0, nil).Propagate(graph, true)

	// Assert
	screws, _ := graph.Node("screws")
	assert.Equal(t, 4.0, screws.Scale())
	assert.Equal(t, 4, screws.Recipe().Stations())
}

func TestGraphConverter_FollowsSelectionAndTracksRevision(t *testing.T) {
	// Arrange
	tree := buildFactoryTree(t, "rotor", 4)
	require.NoError(t, altFor(t, tree.Root(), "screws").SelectRecipe("cast_screws"))

	// Act
	graph := services.NewGraphConverter(0).ConvertToGraph(tree)

	// Assert
	assert.False(t, graph.IsStale(tree))
	_, hasCast := graph.Node("cast_screws")
	assert.True(t, hasCast)
	_, hasScrews := graph.Node("screws")
	assert.False(t, hasScrews)

	require.NoError(t, altFor(t, tree.Root(), "screws").Select(0))
	assert.True(t, graph.IsStale(tree))
}

func TestGraphConverter_SkipsLeaves(t *testing.T) {
	// Arrange
	tree := buildLoopTree(t, true)

	// Act
	graph := services.NewGraphConverter(0).ConvertToGraph(tree)

	// Assert
	assert.Equal(t, 2, graph.Len())
	boil, ok := graph.Node("boil")
	require.True(t, ok)
	assert.Equal(t, 0, boil.ProducerCount())
}
