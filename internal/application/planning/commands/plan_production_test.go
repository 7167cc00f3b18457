package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factory-planner/internal/adapters/persistence"
	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/application/planning/commands"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
	"github.com/andrescamacho/factory-planner/test/helpers"
)

type capturedLog struct {
	level    string
	message  string
	metadata map[string]interface{}
}

type capturingLogger struct {
	logs []capturedLog
}

func (l *capturingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.logs = append(l.logs, capturedLog{level: level, message: message, metadata: metadata})
}

func newPlanHandler(t *testing.T, catalog *production.Catalog) *commands.PlanProductionHandler {
	t.Helper()
	repo := persistence.NewGormCatalogRepository(helpers.NewTestDB(t))
	require.NoError(t, helpers.SeedCatalog(context.Background(), repo, catalog))
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	return commands.NewPlanProductionHandler(repo, commands.DefaultPlannerSettings(), clock)
}

func plan(t *testing.T, handler *commands.PlanProductionHandler, cmd *commands.PlanProductionCommand) (*commands.PlanProductionResponse, error) {
	t.Helper()
	response, err := handler.Handle(context.Background(), cmd)
	if err != nil {
		return nil, err
	}
	return response.(*commands.PlanProductionResponse), nil
}

func TestPlanProduction_DefaultsToOneStation(t *testing.T) {
	// Arrange
	handler := newPlanHandler(t, helpers.NewFactoryCatalog())
	logger := &capturingLogger{}
	ctx := logging.WithLogger(context.Background(), logger)

	// Act
	response, err := handler.Handle(ctx, &commands.PlanProductionCommand{Recipe: "Smart Plating"})

	// Assert
	require.NoError(t, err)
	result := response.(*commands.PlanProductionResponse)
	assert.NotEmpty(t, result.PlanID)
	assert.Equal(t, "smart_plating", result.Recipe.ID)
	assert.Equal(t, "smart_plating", result.Product.ID)
	assert.Equal(t, 2.0, result.TargetRPM)
	assert.Equal(t, 2.0, result.Tree.Root().RPM())
	assert.Empty(t, result.Warnings)
	assert.True(t, result.Propagation.Converged)
	assert.False(t, result.Graph.IsStale(result.Tree))
	assert.False(t, result.Totals.IsStale(result.Tree))

	screws, ok := result.Graph.Node("screws")
	require.True(t, ok)
	assert.Equal(t, 4.0, screws.Scale())

	require.NotEmpty(t, logger.logs)
	last := logger.logs[len(logger.logs)-1]
	assert.Equal(t, "Production plan ready", last.message)
	assert.Equal(t, result.PlanID, last.metadata["plan_id"])
}

func TestPlanProduction_ExplicitRateAndFractionalScales(t *testing.T) {
	// Arrange
	handler := newPlanHandler(t, helpers.NewFactoryCatalog())
	integer := false

	// Act
	result, err := plan(t, handler, &commands.PlanProductionCommand{
		Recipe:        "@iron_rod",
		RPM:           37.5,
		IntegerScales: &integer,
	})

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 2.5, result.Graph.Root().Scale(), 1e-9)
	ingot, _ := result.Graph.Node("iron_ingot")
	assert.InDelta(t, 1.25, ingot.Scale(), 1e-9)
}

func TestPlanProduction_AppliesSelections(t *testing.T) {
	// Arrange
	handler := newPlanHandler(t, helpers.NewFactoryCatalog())

	// Act
	result, err := plan(t, handler, &commands.PlanProductionCommand{
		Recipe:     "Smart Plating",
		Selections: map[string]string{"screws": "cast_screws"},
	})

	// Assert
	require.NoError(t, err)
	for _, alt := range result.Tree.Alternatives() {
		if alt.Product().ID == "screws" {
			assert.Equal(t, "cast_screws", alt.Active().Recipe().ID)
		}
	}
	_, ok := result.Totals.RecipeTotal("cast_screws")
	assert.True(t, ok)
	_, ok = result.Graph.Node("screws")
	assert.False(t, ok)
	assert.False(t, result.Graph.IsStale(result.Tree), "artifacts are derived after selection")
}

func TestPlanProduction_RejectsForeignSelection(t *testing.T) {
	// Arrange
	handler := newPlanHandler(t, helpers.NewFactoryCatalog())

	// Act
	_, err := plan(t, handler, &commands.PlanProductionCommand{
		Recipe:     "Rotor",
		Selections: map[string]string{"screws": "iron_rod"},
	})

	// Assert
	var invalid *planning.ErrInvalidAlternativeSelection
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "not an alternative for screws")
}

func TestPlanProduction_Warnings(t *testing.T) {
	t.Run("depth limit", func(t *testing.T) {
		handler := newPlanHandler(t, helpers.NewFactoryCatalog())
		depth := 1

		result, err := plan(t, handler, &commands.PlanProductionCommand{Recipe: "Smart Plating", MaxDepth: &depth})

		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "depth limit 1 reached")
	})

	t.Run("cyclic dependency", func(t *testing.T) {
		handler := newPlanHandler(t, helpers.NewLoopCatalog())
		detect := true

		result, err := plan(t, handler, &commands.PlanProductionCommand{Recipe: "Condense", DetectCycles: &detect})

		require.NoError(t, err)
		assert.Equal(t, []string{"cyclic dependency on Water cut (10.0 p.m.)"}, result.Warnings)
	})

	t.Run("unresolved resource", func(t *testing.T) {
		catalog, err := helpers.BuildCatalog(
			[]helpers.ResourceFixture{{ID: "wire", Name: "Wire"}, {ID: "cable", Name: "Cable"}},
			[]helpers.RecipeFixture{{
				ID: "cable", Name: "Cable", CycleSecs: 2,
				Inputs:  []helpers.ComponentFixture{{ResourceID: "wire", Quantity: 2}},
				Outputs: []helpers.ComponentFixture{{ResourceID: "cable", Quantity: 1}},
			}},
		)
		require.NoError(t, err)
		handler := newPlanHandler(t, catalog)

		result, err := plan(t, handler, &commands.PlanProductionCommand{Recipe: "Cable"})

		require.NoError(t, err)
		assert.Equal(t, []string{"no recipe produces Wire (60.0 p.m. unmet)"}, result.Warnings)
	})
}

func TestPlanProduction_Errors(t *testing.T) {
	handler := newPlanHandler(t, helpers.NewFactoryCatalog())
	negativeDepth := -2

	tests := []struct {
		name  string
		cmd   *commands.PlanProductionCommand
		check func(t *testing.T, err error)
	}{
		{
			name: "missing recipe",
			cmd:  &commands.PlanProductionCommand{},
			check: func(t *testing.T, err error) {
				var validation *shared.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, "recipe", validation.Field)
			},
		},
		{
			name: "negative rpm",
			cmd:  &commands.PlanProductionCommand{Recipe: "Rotor", RPM: -1},
			check: func(t *testing.T, err error) {
				var validation *shared.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, "rpm", validation.Field)
			},
		},
		{
			name: "negative depth",
			cmd:  &commands.PlanProductionCommand{Recipe: "Rotor", MaxDepth: &negativeDepth},
			check: func(t *testing.T, err error) {
				var validation *shared.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, "max_depth", validation.Field)
			},
		},
		{
			name: "unknown recipe",
			cmd:  &commands.PlanProductionCommand{Recipe: "@gold_rotor"},
			check: func(t *testing.T, err error) {
				var notFound *production.ErrRecipeNotFound
				require.ErrorAs(t, err, &notFound)
			},
		},
		{
			name: "foreign product",
			cmd:  &commands.PlanProductionCommand{Recipe: "Rotor", Product: "Screws"},
			check: func(t *testing.T, err error) {
				var notProduced *production.ErrProductNotProduced
				require.ErrorAs(t, err, &notProduced)
				assert.Equal(t, "screws", notProduced.ProductID)
			},
		},
		{
			name: "unknown order",
			cmd:  &commands.PlanProductionCommand{Recipe: "Rotor", AlternativeOrder: "cheapest"},
			check: func(t *testing.T, err error) {
				var unknown *planning.ErrUnknownAlternativeOrder
				require.ErrorAs(t, err, &unknown)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan(t, handler, tt.cmd)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestPlanProduction_InvalidRequestType(t *testing.T) {
	// Arrange
	handler := newPlanHandler(t, helpers.NewFactoryCatalog())

	// Act
	_, err := handler.Handle(context.Background(), "plan everything")

	// Assert
	assert.EqualError(t, err, "invalid request type: expected *PlanProductionCommand")
}

func TestDefaultTargetRPM(t *testing.T) {
	catalog := helpers.NewFactoryCatalog()
	screws, _ := catalog.Recipe("screws")
	product, _ := catalog.Resource("screws")
	ore, _ := catalog.Resource("iron_ore")

	assert.Equal(t, 40.0, commands.DefaultTargetRPM(screws, product))
	assert.Equal(t, 0.0, commands.DefaultTargetRPM(screws, ore))
}
