package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	planningCmd "github.com/andrescamacho/factory-planner/internal/application/planning/commands"
)

type planInput struct {
	Recipe string  `validate:"required"`
	RPM    float64 `validate:"gte=0"`
	View   string  `validate:"oneof=stations tree totals all"`
	Order  string  `validate:"omitempty,alternative_order"`
}

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	var (
		recipe        string
		product       string
		rpm           float64
		maxDepth      int
		integerScales bool
		detectCycles  bool
		order         string
		selects       []string
		view          string
		noPreferences bool
		showInactive  bool
		useEmojis     bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the production chain of a recipe",
		Long: `Expand a recipe into its dependency tree, total the resources it needs and
compute how many stations of every recipe keep up with the target rate.

Where several recipes produce the same resource the best ranked one is used.
Pick another with --select <product_id>=<recipe_id>, or store the choice with
'factory-planner prefer set'.

Views:
  stations  stations to build per recipe with per-minute inputs and outputs
  tree      the dependency tree, alternatives included
  totals    per-recipe executions and raw resource totals
  all       everything above

Examples:
  factory-planner plan --recipe Screws
  factory-planner plan --recipe @screws --rpm 120 --view all
  factory-planner plan --recipe Screws --select iron_rod=cast_iron_rod --integer=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateInput(planInput{Recipe: recipe, RPM: rpm, View: view, Order: order}); err != nil {
				return err
			}
			explicit, err := parseSelections(selects)
			if err != nil {
				return err
			}
			selections := explicit
			if !noPreferences {
				selections = mergeSelections(loadPreferredSelections(), explicit)
			}

			command := &planningCmd.PlanProductionCommand{
				Recipe:           recipe,
				Product:          product,
				RPM:              rpm,
				AlternativeOrder: order,
				Selections:       selections,
			}
			if cmd.Flags().Changed("max-depth") {
				command.MaxDepth = &maxDepth
			}
			if cmd.Flags().Changed("integer") {
				command.IntegerScales = &integerScales
			}
			if cmd.Flags().Changed("detect-cycles") {
				command.DetectCycles = &detectCycles
			}

			return withApp(func(a *app) error {
				response, err := a.send(command)
				if err != nil {
					return err
				}
				plan := response.(*planningCmd.PlanProductionResponse)
				printPlan(cmd.OutOrStdout(), plan, view, !showInactive, useEmojis)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&recipe, "recipe", "", "Recipe name or @id (required)")
	cmd.Flags().StringVar(&product, "product", "", "Product to target (default: the recipe's first product)")
	cmd.Flags().Float64Var(&rpm, "rpm", 0, "Target units per minute (default: one station's output)")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Deepest tree level still expanded (default from config)")
	cmd.Flags().BoolVar(&integerScales, "integer", true, "Round station counts up to whole numbers")
	cmd.Flags().BoolVar(&detectCycles, "detect-cycles", false, "Cut recipes that reappear on their own dependency path")
	cmd.Flags().StringVar(&order, "order", "", "Alternative ranking: stations, inputs or catalog")
	cmd.Flags().StringArrayVar(&selects, "select", nil, "Active recipe for a product as <product_id>=<recipe_id> (repeatable)")
	cmd.Flags().StringVar(&view, "view", "stations", "Output: stations, tree, totals or all")
	cmd.Flags().BoolVar(&noPreferences, "no-preferences", false, "Ignore stored recipe preferences")
	cmd.Flags().BoolVar(&showInactive, "show-inactive", false, "Expand inactive alternatives in the tree view")
	cmd.Flags().BoolVar(&useEmojis, "emoji", false, "Use emoji icons in the tree view")
	cmd.MarkFlagRequired("recipe")

	return cmd
}

func printPlan(out io.Writer, plan *planningCmd.PlanProductionResponse, view string, activeOnly, useEmojis bool) {
	useColors := colorsEnabled(out)
	styles := newOutputStyles(useColors)
	formatter := NewPlanFormatter(useColors)

	fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("%s: %.1f %s p.m.",
		plan.Recipe.Name, plan.TargetRPM, plan.Product.Name)))
	fmt.Fprintln(out)

	if view == "tree" || view == "all" {
		trees := NewTreeFormatter(useColors, useEmojis, activeOnly)
		fmt.Fprint(out, trees.FormatTree(plan.Tree.Root()))
		fmt.Fprintln(out, styles.Muted.Render(trees.FormatTreeSummary(plan.Tree)))
		fmt.Fprintln(out)
	}
	if view == "stations" || view == "all" {
		fmt.Fprint(out, formatter.FormatStations(plan.Graph))
		fmt.Fprintln(out)
	}
	if view == "totals" || view == "all" {
		fmt.Fprint(out, formatter.FormatTotals(plan.Totals))
		fmt.Fprintln(out)
	}

	fmt.Fprint(out, formatter.FormatWarnings(plan.Warnings))
}
