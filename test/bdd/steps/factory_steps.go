package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/factory-planner/internal/application/catalog/commands"
	"github.com/andrescamacho/factory-planner/internal/application/catalog/queries"
	planningCommands "github.com/andrescamacho/factory-planner/internal/application/planning/commands"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
	"github.com/andrescamacho/factory-planner/test/helpers"
)

const tolerance = 1e-6

// factoryContext drives catalog and planning requests through the mediator
// against the shared test database
type factoryContext struct {
	repos      *helpers.TestRepositories
	selections map[string]string
	plan       *planningCommands.PlanProductionResponse
	found      *queries.FindRecipesResponse
	err        error
}

func (fc *factoryContext) reset() error {
	fc.repos = nil
	fc.selections = map[string]string{}
	fc.plan = nil
	fc.found = nil
	fc.err = nil

	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	repos, err := helpers.NewTestRepositories(planningCommands.DefaultPlannerSettings(), clock)
	if err != nil {
		return err
	}
	fc.repos = repos
	return nil
}

func (fc *factoryContext) send(request interface{}) (interface{}, error) {
	return fc.repos.Mediator.Send(context.Background(), request)
}

// Given steps

func (fc *factoryContext) theFactoryCatalogIsLoaded() error {
	return helpers.SeedCatalog(context.Background(), fc.repos.CatalogRepo, helpers.NewFactoryCatalog())
}

func (fc *factoryContext) theLoopCatalogIsLoaded() error {
	return helpers.SeedCatalog(context.Background(), fc.repos.CatalogRepo, helpers.NewLoopCatalog())
}

func (fc *factoryContext) theFollowingResources(table *godog.Table) error {
	for _, row := range table.Rows[1:] { // Skip header
		_, err := fc.send(&commands.AddResourceCommand{
			Name:  row.Cells[0].Value,
			IsRaw: row.Cells[1].Value == "yes",
		})
		if err != nil {
			return fmt.Errorf("failed to add resource %s: %w", row.Cells[0].Value, err)
		}
	}
	return nil
}

func (fc *factoryContext) theRecipeTakingAndMaking(name, cycle, inputs, outputs string) error {
	resources, err := parseComponents(inputs)
	if err != nil {
		return err
	}
	products, err := parseComponents(outputs)
	if err != nil {
		return err
	}
	_, fc.err = fc.send(&commands.AddRecipeCommand{
		Name:      name,
		CycleTime: cycle,
		Resources: resources,
		Products:  products,
	})
	return nil
}

func (fc *factoryContext) iPreferRecipeFor(recipeID, productID string) error {
	fc.selections[productID] = recipeID
	return nil
}

// When steps

func (fc *factoryContext) iAddTheResource(name string) error {
	_, fc.err = fc.send(&commands.AddResourceCommand{Name: name})
	return nil
}

func (fc *factoryContext) iLookUpTheRecipesProducing(product string) error {
	response, err := fc.send(&queries.FindRecipesQuery{Product: product})
	fc.err = err
	if err == nil {
		fc.found = response.(*queries.FindRecipesResponse)
	}
	return nil
}

func (fc *factoryContext) iPlan(recipe string) error {
	return fc.planWith(&planningCommands.PlanProductionCommand{Recipe: recipe})
}

func (fc *factoryContext) iPlanAtPerMinute(recipe string, rpm float64) error {
	return fc.planWith(&planningCommands.PlanProductionCommand{Recipe: recipe, RPM: rpm})
}

func (fc *factoryContext) iPlanAtPerMinuteWithFractionalScales(recipe string, rpm float64) error {
	integer := false
	return fc.planWith(&planningCommands.PlanProductionCommand{Recipe: recipe, RPM: rpm, IntegerScales: &integer})
}

func (fc *factoryContext) iPlanAtPerMinuteWithCycleDetection(recipe string, rpm float64) error {
	detect := true
	return fc.planWith(&planningCommands.PlanProductionCommand{Recipe: recipe, RPM: rpm, DetectCycles: &detect})
}

func (fc *factoryContext) iPlanAtPerMinuteWithMaxDepth(recipe string, rpm float64, depth int) error {
	return fc.planWith(&planningCommands.PlanProductionCommand{Recipe: recipe, RPM: rpm, MaxDepth: &depth})
}

func (fc *factoryContext) planWith(cmd *planningCommands.PlanProductionCommand) error {
	if len(fc.selections) > 0 {
		cmd.Selections = fc.selections
	}
	response, err := fc.send(cmd)
	fc.err = err
	if err == nil {
		fc.plan = response.(*planningCommands.PlanProductionResponse)
	}
	return nil
}

// Then steps

func (fc *factoryContext) theRequestShouldSucceed() error {
	if fc.err != nil {
		return fmt.Errorf("expected success, got error: %v", fc.err)
	}
	return nil
}

func (fc *factoryContext) theRequestShouldFailWith(expected string) error {
	if fc.err == nil {
		return fmt.Errorf("expected an error containing '%s', but the request succeeded", expected)
	}
	if !strings.Contains(fc.err.Error(), expected) {
		return fmt.Errorf("expected an error containing '%s', got '%s'", expected, fc.err.Error())
	}
	return nil
}

func (fc *factoryContext) theRecipesShouldBe(table *godog.Table) error {
	if fc.found == nil {
		return fmt.Errorf("no lookup result available")
	}
	rows := table.Rows[1:]
	if len(fc.found.Matches) != len(rows) {
		return fmt.Errorf("expected %d recipes, got %d", len(rows), len(fc.found.Matches))
	}
	for i, row := range rows {
		match := fc.found.Matches[i]
		if match.Recipe.ID != row.Cells[0].Value {
			return fmt.Errorf("recipe %d: expected %s, got %s", i, row.Cells[0].Value, match.Recipe.ID)
		}
		if err := expectFloat("base rate of "+match.Recipe.ID, row.Cells[1].Value, match.Production.GetBaseRPM()); err != nil {
			return err
		}
	}
	return nil
}

func (fc *factoryContext) thePlanTargetShouldBePerMinute(expected float64) error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	return expectClose("target rate", expected, fc.plan.TargetRPM)
}

func (fc *factoryContext) thePlanShouldHaveTheFollowingStations(table *godog.Table) error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	rows := table.Rows[1:]
	if fc.plan.Graph.Len() != len(rows) {
		return fmt.Errorf("expected %d graph nodes, got %d", len(rows), fc.plan.Graph.Len())
	}
	for _, row := range rows {
		node, ok := fc.plan.Graph.Node(row.Cells[0].Value)
		if !ok {
			return fmt.Errorf("recipe %s is not in the plan", row.Cells[0].Value)
		}
		if err := expectFloat("scale of "+node.RecipeID(), row.Cells[1].Value, node.Scale()); err != nil {
			return err
		}
		if err := expectFloat("stations of "+node.RecipeID(), row.Cells[2].Value, float64(node.Recipe().Stations())); err != nil {
			return err
		}
	}
	return nil
}

func (fc *factoryContext) theRecipeShouldRunAtPerMinute(recipeID string, expected float64) error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	total, ok := fc.plan.Totals.RecipeTotal(recipeID)
	if !ok {
		return fmt.Errorf("recipe %s is not on the active path", recipeID)
	}
	return expectClose(recipeID+" rate", expected, total.Product.Quantity)
}

func (fc *factoryContext) theRecipeShouldNotBeUsed(recipeID string) error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	if _, ok := fc.plan.Totals.RecipeTotal(recipeID); ok {
		return fmt.Errorf("expected %s to be unused", recipeID)
	}
	return nil
}

func (fc *factoryContext) thePlanShouldExtractPerMinute(resourceID string, expected float64) error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	q, ok := fc.plan.Totals.SourceTotals.Get(resourceID)
	if !ok {
		return fmt.Errorf("%s is not extracted", resourceID)
	}
	return expectClose(resourceID+" extraction", expected, q.Quantity)
}

func (fc *factoryContext) thePlanShouldWarn(expected string) error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	for _, w := range fc.plan.Warnings {
		if strings.Contains(w, expected) {
			return nil
		}
	}
	return fmt.Errorf("expected a warning containing '%s', got %v", expected, fc.plan.Warnings)
}

func (fc *factoryContext) thePlanShouldHaveNoWarnings() error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	if len(fc.plan.Warnings) > 0 {
		return fmt.Errorf("expected no warnings, got %v", fc.plan.Warnings)
	}
	return nil
}

func (fc *factoryContext) scalePropagationShouldConvergeInPasses(passes int) error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	if !fc.plan.Propagation.Converged {
		return fmt.Errorf("expected scale propagation to converge")
	}
	if fc.plan.Propagation.Passes != passes {
		return fmt.Errorf("expected %d passes, got %d", passes, fc.plan.Propagation.Passes)
	}
	return nil
}

func (fc *factoryContext) theTreeShouldBeLevelsDeep(depth int) error {
	if err := fc.requirePlan(); err != nil {
		return err
	}
	if got := fc.plan.Tree.Depth(); got != depth {
		return fmt.Errorf("expected tree depth %d, got %d", depth, got)
	}
	return nil
}

func (fc *factoryContext) requirePlan() error {
	if fc.err != nil {
		return fmt.Errorf("planning failed: %w", fc.err)
	}
	if fc.plan == nil {
		return fmt.Errorf("no plan available")
	}
	return nil
}

// Helper methods

// parseComponents reads "Iron Ore=1, @screws=4"; "-" means none
func parseComponents(list string) ([]commands.ComponentSpec, error) {
	specs := make([]commands.ComponentSpec, 0)
	if strings.TrimSpace(list) == "-" {
		return specs, nil
	}
	for _, part := range strings.Split(list, ",") {
		ref, qty, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("component %q has no quantity", part)
		}
		quantity, err := strconv.ParseFloat(strings.TrimSpace(qty), 64)
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", part, err)
		}
		specs = append(specs, commands.ComponentSpec{Ref: strings.TrimSpace(ref), Quantity: quantity})
	}
	return specs, nil
}

func expectFloat(what, expected string, actual float64) error {
	want, err := strconv.ParseFloat(expected, 64)
	if err != nil {
		return fmt.Errorf("%s: bad expectation %q", what, expected)
	}
	return expectClose(what, want, actual)
}

func expectClose(what string, expected, actual float64) error {
	if math.Abs(expected-actual) > tolerance {
		return fmt.Errorf("expected %s %g, got %g", what, expected, actual)
	}
	return nil
}

func InitializeFactoryScenario(ctx *godog.ScenarioContext) {
	fc := &factoryContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, fc.reset()
	})

	// Given steps
	ctx.Step(`^the factory catalog is loaded$`, fc.theFactoryCatalogIsLoaded)
	ctx.Step(`^the loop catalog is loaded$`, fc.theLoopCatalogIsLoaded)
	ctx.Step(`^the following resources:$`, fc.theFollowingResources)
	ctx.Step(`^the recipe "([^"]*)" taking (\S+) seconds? from "([^"]*)" to "([^"]*)"$`, fc.theRecipeTakingAndMaking)
	ctx.Step(`^I prefer recipe "([^"]*)" for "([^"]*)"$`, fc.iPreferRecipeFor)

	// When steps
	ctx.Step(`^I add the resource "([^"]*)"$`, fc.iAddTheResource)
	ctx.Step(`^I add the recipe "([^"]*)" taking (\S+) seconds? from "([^"]*)" to "([^"]*)"$`, fc.theRecipeTakingAndMaking)
	ctx.Step(`^I look up the recipes producing "([^"]*)"$`, fc.iLookUpTheRecipesProducing)
	ctx.Step(`^I plan "([^"]*)"$`, fc.iPlan)
	ctx.Step(`^I plan "([^"]*)" at ([0-9.]+) per minute$`, fc.iPlanAtPerMinute)
	ctx.Step(`^I plan "([^"]*)" at ([0-9.]+) per minute with fractional scales$`, fc.iPlanAtPerMinuteWithFractionalScales)
	ctx.Step(`^I plan "([^"]*)" at ([0-9.]+) per minute with cycle detection$`, fc.iPlanAtPerMinuteWithCycleDetection)
	ctx.Step(`^I plan "([^"]*)" at ([0-9.]+) per minute with max depth (\d+)$`, fc.iPlanAtPerMinuteWithMaxDepth)

	// Then steps
	ctx.Step(`^the request should succeed$`, fc.theRequestShouldSucceed)
	ctx.Step(`^the request should fail with "([^"]*)"$`, fc.theRequestShouldFailWith)
	ctx.Step(`^the recipes should be:$`, fc.theRecipesShouldBe)
	ctx.Step(`^the plan target should be ([0-9.]+) per minute$`, fc.thePlanTargetShouldBePerMinute)
	ctx.Step(`^the plan should have the following stations:$`, fc.thePlanShouldHaveTheFollowingStations)
	ctx.Step(`^recipe "([^"]*)" should run at ([0-9.]+) per minute$`, fc.theRecipeShouldRunAtPerMinute)
	ctx.Step(`^recipe "([^"]*)" should not be used$`, fc.theRecipeShouldNotBeUsed)
	ctx.Step(`^the plan should extract ([0-9.]+) "([^"]*)" per minute$`, func(rpm float64, resourceID string) error {
		return fc.thePlanShouldExtractPerMinute(resourceID, rpm)
	})
	ctx.Step(`^the plan should warn "([^"]*)"$`, fc.thePlanShouldWarn)
	ctx.Step(`^the plan should have no warnings$`, fc.thePlanShouldHaveNoWarnings)
	ctx.Step(`^scale propagation should converge in (\d+) passes?$`, fc.scalePropagationShouldConvergeInPasses)
	ctx.Step(`^the tree should be (\d+) levels deep$`, fc.theTreeShouldBeLevelsDeep)
}
