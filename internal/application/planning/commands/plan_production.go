package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/factory-planner/internal/adapters/metrics"
	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/application/mediator"
	"github.com/andrescamacho/factory-planner/internal/application/planning/services"
	"github.com/andrescamacho/factory-planner/internal/domain/planning"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/domain/shared"
	"github.com/andrescamacho/factory-planner/pkg/utils"
)

// PlannerSettings are the defaults a PlanProductionCommand falls back to
type PlannerSettings struct {
	MaxDepth         int
	ScaleMaxDepth    int
	MaxScalePasses   int
	IntegerScales    bool
	DetectCycles     bool
	AlternativeOrder planning.AlternativeOrder
}

// DefaultPlannerSettings returns the reference planner defaults
func DefaultPlannerSettings() PlannerSettings {
	return PlannerSettings{
		MaxDepth:         services.DefaultMaxDepth,
		ScaleMaxDepth:    planning.DefaultScaleMaxDepth,
		MaxScalePasses:   services.DefaultMaxScalePasses,
		IntegerScales:    true,
		AlternativeOrder: planning.OrderStations,
	}
}

// PlanProductionCommand requests a full production plan for one recipe
type PlanProductionCommand struct {
	Recipe  string  // Recipe name or "@id"
	Product string  // Optional: product name or "@id", defaults to the recipe's first product
	RPM     float64 // Optional: target units per minute, defaults to one station's output

	// Optional overrides of PlannerSettings
	MaxDepth         *int
	IntegerScales    *bool
	DetectCycles     *bool
	AlternativeOrder string

	// Selections maps a product id to the recipe id that should be active for it
	Selections map[string]string
}

// PlanProductionResponse carries every planning artifact for presentation
type PlanProductionResponse struct {
	PlanID      string
	Recipe      *production.Recipe
	Product     *production.Resource
	TargetRPM   float64
	Tree        *planning.ProductionTree
	Totals      *services.ResourceTotals
	Graph       *planning.ProductionGraph
	Propagation services.PropagationResult
	Warnings    []string
}

// PlanProductionHandler handles the PlanProduction command
type PlanProductionHandler struct {
	catalogRepo production.CatalogRepository
	settings    PlannerSettings
	clock       shared.Clock
}

// NewPlanProductionHandler creates a new PlanProductionHandler
func NewPlanProductionHandler(
	catalogRepo production.CatalogRepository,
	settings PlannerSettings,
	clock shared.Clock,
) *PlanProductionHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &PlanProductionHandler{
		catalogRepo: catalogRepo,
		settings:    settings,
		clock:       clock,
	}
}

// Handle executes the PlanProduction command
func (h *PlanProductionHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*PlanProductionCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *PlanProductionCommand")
	}

	start := h.clock.Now()
	planID := utils.GeneratePlanID(cmd.Recipe)
	logger := logging.LoggerFromContext(ctx)

	response, err := h.plan(ctx, cmd, planID, logger)

	stats := metrics.PlanStats{
		Recipe:          cmd.Recipe,
		Success:         err == nil,
		DurationSeconds: h.clock.Now().Sub(start).Seconds(),
	}
	if err != nil {
		logger.Log(logging.LevelError, "Production planning failed", map[string]interface{}{
			"plan_id": planID,
			"recipe":  cmd.Recipe,
			"error":   err.Error(),
		})
		metrics.RecordPlan(stats)
		return nil, err
	}

	stats.TreeNodes = response.Tree.CountNodes()
	stats.GraphNodes = response.Graph.Len()
	stats.ScalePasses = response.Propagation.Passes
	stats.Converged = response.Propagation.Converged
	stats.TruncatedNodes = len(response.Tree.TruncatedNodes())
	stats.Unresolved = response.Totals.UnresolvedTotals.Keys()
	metrics.RecordPlan(stats)

	logger.Log(logging.LevelInfo, "Production plan ready", map[string]interface{}{
		"plan_id":      planID,
		"recipe":       response.Recipe.ID,
		"product":      response.Product.ID,
		"rpm":          response.TargetRPM,
		"tree_nodes":   stats.TreeNodes,
		"graph_nodes":  stats.GraphNodes,
		"scale_passes": stats.ScalePasses,
		"warnings":     len(response.Warnings),
	})

	return response, nil
}

func (h *PlanProductionHandler) plan(
	ctx context.Context,
	cmd *PlanProductionCommand,
	planID string,
	logger logging.Logger,
) (*PlanProductionResponse, error) {
	if cmd.Recipe == "" {
		return nil, shared.NewValidationError("recipe", "is required")
	}
	if cmd.RPM < 0 {
		return nil, shared.NewValidationError("rpm", fmt.Sprintf("must not be negative, got %g", cmd.RPM))
	}

	settings, err := h.effectiveSettings(cmd)
	if err != nil {
		return nil, err
	}
	comparator, err := planning.Comparator(settings.AlternativeOrder)
	if err != nil {
		return nil, err
	}

	catalog, err := h.catalogRepo.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	recipe, err := catalog.ResolveRecipe(cmd.Recipe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipe: %w", err)
	}
	product, err := resolveProduct(catalog, recipe, cmd.Product)
	if err != nil {
		return nil, err
	}
	rpm := cmd.RPM
	if rpm == 0 {
		rpm = DefaultTargetRPM(recipe, product)
	}

	planLogger := &planScopedLogger{inner: logger, planID: planID}

	builder := services.NewTreeBuilder(catalog,
		services.WithMaxDepth(settings.MaxDepth),
		services.WithComparator(comparator),
		services.WithCycleDetection(settings.DetectCycles),
		services.WithTreeLogger(planLogger),
	)
	tree, err := builder.Build(recipe, product, rpm)
	if err != nil {
		return nil, fmt.Errorf("failed to build production tree: %w", err)
	}

	if err := applySelections(tree, cmd.Selections); err != nil {
		return nil, err
	}

	totals := services.NewResourceAggregator().Aggregate(tree)
	graph := services.NewGraphConverter(settings.ScaleMaxDepth).ConvertToGraph(tree)
	propagation := services.NewScalePropagator(settings.MaxScalePasses, planLogger).
		Propagate(graph, settings.IntegerScales)

	return &PlanProductionResponse{
		PlanID:      planID,
		Recipe:      recipe,
		Product:     product,
		TargetRPM:   rpm,
		Tree:        tree,
		Totals:      totals,
		Graph:       graph,
		Propagation: propagation,
		Warnings:    collectWarnings(tree, totals, propagation, settings),
	}, nil
}

func (h *PlanProductionHandler) effectiveSettings(cmd *PlanProductionCommand) (PlannerSettings, error) {
	settings := h.settings
	if cmd.MaxDepth != nil {
		if *cmd.MaxDepth < 0 {
			return settings, shared.NewValidationError("max_depth", fmt.Sprintf("must not be negative, got %d", *cmd.MaxDepth))
		}
		settings.MaxDepth = *cmd.MaxDepth
	}
	if cmd.IntegerScales != nil {
		settings.IntegerScales = *cmd.IntegerScales
	}
	if cmd.DetectCycles != nil {
		settings.DetectCycles = *cmd.DetectCycles
	}
	if cmd.AlternativeOrder != "" {
		settings.AlternativeOrder = planning.AlternativeOrder(cmd.AlternativeOrder)
	}
	return settings, nil
}

// DefaultTargetRPM is the output of one station of recipe for product
func DefaultTargetRPM(recipe *production.Recipe, product *production.Resource) float64 {
	scaled, ok := recipe.Scaled(1).Products.Get(product.ID)
	if !ok {
		return 0
	}
	return scaled.Quantity
}

func resolveProduct(catalog *production.Catalog, recipe *production.Recipe, ref string) (*production.Resource, error) {
	if ref == "" {
		product, ok := recipe.NthProduct(0)
		if !ok {
			return nil, &production.ErrProductNotProduced{RecipeID: recipe.ID}
		}
		return product, nil
	}

	product, err := catalog.ResolveResource(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	if !recipe.Produces(product.ID) {
		return nil, &production.ErrProductNotProduced{RecipeID: recipe.ID, ProductID: product.ID}
	}
	return product, nil
}

// applySelections activates the requested recipe on every AltNode of the active
// path whose product has a selection. AltNodes revealed by a selection are
// visited too, so nested choices can be made in one request.
func applySelections(tree *planning.ProductionTree, selections map[string]string) error {
	if len(selections) == 0 {
		return nil
	}
	applied := make(map[*planning.AltNode]bool)
	for {
		changed := false
		for _, alt := range tree.Alternatives() {
			if applied[alt] {
				continue
			}
			applied[alt] = true
			recipeID, ok := selections[alt.Product().ID]
			if !ok {
				continue
			}
			before := alt.ActiveIndex()
			if err := alt.SelectRecipe(recipeID); err != nil {
				var invalid *planning.ErrInvalidAlternativeSelection
				if errors.As(err, &invalid) {
					return fmt.Errorf("recipe %s is not an alternative for %s: %w", recipeID, alt.Product().ID, err)
				}
				return err
			}
			if alt.ActiveIndex() != before {
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

func collectWarnings(
	tree *planning.ProductionTree,
	totals *services.ResourceTotals,
	propagation services.PropagationResult,
	settings PlannerSettings,
) []string {
	warnings := make([]string, 0)
	if tree.ActiveTruncated() {
		warnings = append(warnings, fmt.Sprintf(
			"depth limit %d reached: the plan may be incomplete", settings.MaxDepth))
	}
	for _, q := range totals.UnresolvedTotals.Values() {
		warnings = append(warnings, fmt.Sprintf("no recipe produces %s (%.1f p.m. unmet)", q.Resource.Name, q.Quantity))
	}
	for _, q := range totals.CyclicTotals.Values() {
		warnings = append(warnings, fmt.Sprintf("cyclic dependency on %s cut (%.1f p.m.)", q.Resource.Name, q.Quantity))
	}
	if !propagation.Converged {
		warnings = append(warnings, fmt.Sprintf(
			"station counts did not settle after %d passes", propagation.Passes))
	}
	return warnings
}

// planScopedLogger tags every entry with the plan id
type planScopedLogger struct {
	inner  logging.Logger
	planID string
}

func (l *planScopedLogger) Log(level, message string, metadata map[string]interface{}) {
	tagged := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		tagged[k] = v
	}
	tagged["plan_id"] = l.planID
	l.inner.Log(level, message, tagged)
}
