package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/application/planning/services"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/test/helpers"
)

func buildTree(t *testing.T, recipeID string, rpm float64) *planning.ProductionTree {
	t.Helper()
	catalog := helpers.NewFactoryCatalog()
	recipe, ok := catalog.Recipe(recipeID)
	require.True(t, ok)
	product, _ := recipe.NthProduct(0)

	tree, err := services.NewTreeBuilder(catalog).Build(recipe, product, rpm)
	require.NoError(t, err)
	return tree
}

func TestTreeFormatter_PlainOutline(t *testing.T) {
	// Arrange
	tree := buildTree(t, "iron_rod", 15)
	formatter := NewTreeFormatter(false, false, true)

	// Act
	out := formatter.FormatTree(tree.Root())

	// Assert
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], `*[P] Recipe "Iron Rod"`), lines[0])
	assert.Equal(t, `└── *[A] Iron Ingot: 1 alternative(s), using "Iron Ingot"`, lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `    └── *[P] Recipe "Iron Ingot"`), lines[2])
	assert.Equal(t, "        └── *[S] Iron Ore [source] 15.0 p.m.", lines[3])
}

func TestTreeFormatter_CollapsesInactiveCandidates(t *testing.T) {
	tree := buildTree(t, "rotor", 4)

	collapsed := NewTreeFormatter(false, false, true).FormatTree(tree.Root())
	expanded := NewTreeFormatter(false, false, false).FormatTree(tree.Root())

	assert.Contains(t, collapsed, ` [P] Recipe "Cast Screws"`)
	assert.Contains(t, collapsed, "…")
	assert.Greater(t, strings.Count(expanded, "\n"), strings.Count(collapsed, "\n"))
	assert.NotContains(t, expanded, "…")
}

func TestTreeFormatter_EmojiAndSummary(t *testing.T) {
	tree := buildTree(t, "iron_rod", 15)
	formatter := NewTreeFormatter(false, true, true)

	assert.Contains(t, formatter.FormatTree(tree.Root()), "*⛏️ Iron Ore")
	assert.Equal(t,
		"Tree: 4 nodes, 1 alternatives, depth=2, active leaves: 1 source / 0 unresolved / 0 cyclic",
		formatter.FormatTreeSummary(tree))
	assert.Equal(t, "(empty tree)", formatter.FormatTree(nil))
	assert.Equal(t, "No production tree", formatter.FormatTreeSummary(nil))
}

func TestPlanFormatter_Stations(t *testing.T) {
	// Arrange
	tree := buildTree(t, "iron_rod", 15)
	graph := services.NewGraphConverter(20).ConvertToGraph(tree)
	formatter := NewPlanFormatter(false)

	// Act
	out := formatter.FormatStations(graph)

	// Assert
	assert.Contains(t, out, "1x Iron Rod  scale 1.00, level 0")
	assert.Contains(t, out, "1x Iron Ingot  scale 1.00, level 1")
	assert.Contains(t, out, "Iron Ore")
	assert.Equal(t, "(no stations)", formatter.FormatStations(nil))
}

func TestPlanFormatter_TotalsAndWarnings(t *testing.T) {
	tree := buildTree(t, "iron_rod", 15)
	totals := services.NewResourceAggregator().Aggregate(tree)
	formatter := NewPlanFormatter(false)

	out := formatter.FormatTotals(totals)

	assert.Contains(t, out, "Recipes\n")
	assert.Contains(t, out, "Sources\n")
	assert.Contains(t, out, "15.0 p.m.")
	assert.NotContains(t, out, "Unresolved")
	assert.Equal(t, "⚠ first\n⚠ second\n", formatter.FormatWarnings([]string{"first", "second"}))
	assert.Equal(t, "(no totals)", formatter.FormatTotals(nil))
}
