package steps

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

type scaledRecipeContext struct {
	product *production.Resource
	scaled  *planning.ScaledRecipe
	changed bool
}

func (c *scaledRecipeContext) reset() {
	c.product = nil
	c.scaled = nil
	c.changed = false
}

// Given steps

func (c *scaledRecipeContext) aRecipeProducingPerMinuteAtScale(product string, rpm, scale float64) error {
	ore := production.NewResource("Ore", "", true)
	c.product = production.NewResource(product, "", false)
	recipe, err := production.NewRecipe(product, "",
		[]production.ResourceQuantity{ore.N(1)},
		[]production.ResourceQuantity{c.product.N(1)},
		time.Duration(float64(time.Minute)/rpm))
	if err != nil {
		return err
	}
	c.scaled = planning.NewScaledRecipe(recipe, scale)
	return nil
}

// When steps

func (c *scaledRecipeContext) consumersDemandPerMinute(demand float64) error {
	if c.scaled == nil {
		return fmt.Errorf("no scaled recipe available")
	}
	c.changed = c.scaled.ScaleForMinRPM(production.NewResourceQuantities(c.product.N(demand)))
	return nil
}

func (c *scaledRecipeContext) theScaleIsRoundedToWholeStations() error {
	if c.scaled == nil {
		return fmt.Errorf("no scaled recipe available")
	}
	c.changed = c.scaled.CeilScale()
	return nil
}

// Then steps

func (c *scaledRecipeContext) theScaleShouldBe(expected float64) error {
	if math.Abs(c.scaled.Scale()-expected) > 1e-9 {
		return fmt.Errorf("expected scale %g, got %g", expected, c.scaled.Scale())
	}
	return nil
}

func (c *scaledRecipeContext) theScaleShouldHaveChanged(outcome string) error {
	want := outcome == "changed"
	if c.changed != want {
		return fmt.Errorf("expected scale to be %s, changed=%t", outcome, c.changed)
	}
	return nil
}

func (c *scaledRecipeContext) itShouldNeedStations(expected int) error {
	if got := c.scaled.Stations(); got != expected {
		return fmt.Errorf("expected %d stations, got %d", expected, got)
	}
	return nil
}

func InitializeScaledRecipeScenario(ctx *godog.ScenarioContext) {
	c := &scaledRecipeContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	ctx.Step(`^a recipe producing "([^"]*)" at ([0-9.]+) per minute running at scale ([0-9.]+)$`, c.aRecipeProducingPerMinuteAtScale)
	ctx.Step(`^consumers demand ([0-9.]+) per minute$`, c.consumersDemandPerMinute)
	ctx.Step(`^the scale is rounded to whole stations$`, c.theScaleIsRoundedToWholeStations)
	ctx.Step(`^the scale should be ([0-9.]+)$`, c.theScaleShouldBe)
	ctx.Step(`^the scale should be (changed|unchanged)$`, c.theScaleShouldHaveChanged)
	ctx.Step(`^it should need (\d+) stations?$`, c.itShouldNeedStations)
}
