package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factory-planner/internal/application/catalog/commands"
	"github.com/andrescamacho/factory-planner/internal/application/catalog/queries"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
)

// NewRecipeCommand creates the recipe command with subcommands
func NewRecipeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Manage catalog recipes",
		Long: `Add, find and list recipes.

Resources are referenced by name, or by id with a leading "@".
Cycle times are written as [[h:]m:]s.

Examples:
  factory-planner recipe add "Iron Ingot" --cycle 2 --input "Iron Ore=1" --output "Iron Ingot=1"
  factory-planner recipe add "Iron Mine" --cycle 1 --output "@iron_ore=1" --source "Iron Node"
  factory-planner recipe find --product "Iron Ingot"
  factory-planner recipe find --recipe @iron_ingot`,
	}

	cmd.AddCommand(newRecipeAddCommand())
	cmd.AddCommand(newRecipeFindCommand())
	cmd.AddCommand(newRecipeListCommand())

	return cmd
}

type recipeAddInput struct {
	Name    string   `validate:"required"`
	Cycle   string   `validate:"required"`
	Outputs []string `validate:"min=1,dive,required"`
	Inputs  []string `validate:"dive,required"`
}

func newRecipeAddCommand() *cobra.Command {
	var (
		id      string
		cycle   string
		source  string
		inputs  []string
		outputs []string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateInput(recipeAddInput{Name: args[0], Cycle: cycle, Outputs: outputs, Inputs: inputs}); err != nil {
				return err
			}
			resources, err := parseComponentSpecs(inputs)
			if err != nil {
				return err
			}
			products, err := parseComponentSpecs(outputs)
			if err != nil {
				return err
			}

			return withApp(func(a *app) error {
				response, err := a.send(&commands.AddRecipeCommand{
					Name:       args[0],
					ID:         id,
					CycleTime:  cycle,
					SourceName: source,
					Resources:  resources,
					Products:   products,
				})
				if err != nil {
					return err
				}

				recipe := response.(*commands.AddRecipeResponse).Recipe
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added recipe %s\n", recipe)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Recipe id (default: generated from the name)")
	cmd.Flags().StringVar(&cycle, "cycle", "", "Cycle time as [[h:]m:]s (required)")
	cmd.Flags().StringVar(&source, "source", "", "Source name shown for recipes without inputs")
	cmd.Flags().StringArrayVar(&inputs, "input", nil, "Input as <resource>=<quantity> per cycle (repeatable)")
	cmd.Flags().StringArrayVar(&outputs, "output", nil, "Output as <resource>=<quantity> per cycle (repeatable)")
	cmd.MarkFlagRequired("cycle")
	cmd.MarkFlagRequired("output")

	return cmd
}

func newRecipeFindCommand() *cobra.Command {
	var (
		product string
		recipe  string
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find recipes by product, name or id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				response, err := a.send(&queries.FindRecipesQuery{Product: product, Recipe: recipe})
				if err != nil {
					return err
				}

				result := response.(*queries.FindRecipesResponse)
				out := cmd.OutOrStdout()
				if len(result.Matches) == 0 {
					fmt.Fprintf(out, "No recipe produces %s\n", result.Product)
					return nil
				}
				for _, m := range result.Matches {
					printRecipe(out, m.Recipe)
					if m.Production != nil {
						fmt.Fprintf(out, "    %s\n", m.Production)
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "Product name or @id: list every recipe producing it")
	cmd.Flags().StringVar(&recipe, "recipe", "", "Recipe name or @id")
	cmd.MarkFlagsMutuallyExclusive("product", "recipe")
	cmd.MarkFlagsOneRequired("product", "recipe")

	return cmd
}

func newRecipeListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				response, err := a.send(&queries.ListCatalogQuery{Recipes: true})
				if err != nil {
					return err
				}

				recipes := response.(*queries.ListCatalogResponse).Recipes
				if len(recipes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recipes found")
					return nil
				}
				for _, r := range recipes {
					printRecipe(cmd.OutOrStdout(), r)
				}
				return nil
			})
		},
	}

	return cmd
}

func printRecipe(out io.Writer, recipe *production.Recipe) {
	fmt.Fprintf(out, "%s  [@%s, %.1fs]\n", recipe, recipe.ID, recipe.CycleSeconds())
}
