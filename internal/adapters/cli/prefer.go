package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factory-planner/internal/application/catalog/queries"
	"github.com/andrescamacho/factory-planner/internal/domain/production"
	"github.com/andrescamacho/factory-planner/internal/infrastructure/config"
)

// NewPreferCommand creates the prefer command with subcommands
func NewPreferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefer",
		Short: "Manage preferred recipes",
		Long: `Store which recipe should be active when several produce the same resource.

Preferences live in ~/.factory-planner/preferences.json and apply to every plan
unless --no-preferences is given. --select on the plan command wins over them.

Examples:
  factory-planner prefer set "Iron Rod" "Cast Iron Rod"
  factory-planner prefer set @iron_rod @cast_iron_rod
  factory-planner prefer clear @iron_rod
  factory-planner prefer list`,
	}

	cmd.AddCommand(newPreferSetCommand())
	cmd.AddCommand(newPreferClearCommand())
	cmd.AddCommand(newPreferListCommand())

	return cmd
}

func newPreferSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <product> <recipe>",
		Short: "Prefer a recipe for a product",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipeRef, err := production.ParseResourceRef(args[1])
			if err != nil {
				return err
			}

			return withApp(func(a *app) error {
				response, err := a.send(&queries.FindRecipesQuery{Product: args[0]})
				if err != nil {
					return err
				}
				result := response.(*queries.FindRecipesResponse)

				var chosen *production.Recipe
				for _, m := range result.Matches {
					if (recipeRef.IsID() && m.Recipe.ID == recipeRef.ID) || (!recipeRef.IsID() && m.Recipe.Name == recipeRef.Name) {
						chosen = m.Recipe
						break
					}
				}
				if chosen == nil {
					return fmt.Errorf("recipe %s does not produce %s", recipeRef, result.Product.Name)
				}

				handler, err := config.NewUserConfigHandler()
				if err != nil {
					return err
				}
				if err := handler.SetSelection(result.Product.ID, chosen.ID); err != nil {
					return fmt.Errorf("failed to save preference: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s will be produced by %q\n", result.Product.Name, chosen.Name)
				return nil
			})
		},
	}

	return cmd
}

func newPreferClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear <product_id>",
		Short: "Forget the preferred recipe of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			productRef, err := production.ParseResourceRef(args[0])
			if err != nil {
				return err
			}
			productID := productRef.ID
			if !productRef.IsID() {
				productID = production.GenerateID(productRef.Name)
			}

			if err := handler.ClearSelection(productID); err != nil {
				return fmt.Errorf("failed to clear preference: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Preference for %s cleared\n", productID)
			return nil
		},
	}

	return cmd
}

func newPreferListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List preferred recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return err
			}
			userCfg, err := handler.Load()
			if err != nil {
				return err
			}

			if len(userCfg.Selections) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No preferences set")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", "PRODUCT", "RECIPE")
			for _, product := range userCfg.SortedProducts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", product, userCfg.Selections[product])
			}
			return nil
		},
	}

	return cmd
}
