package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factory-planner/internal/application/catalog/commands"
	"github.com/andrescamacho/factory-planner/internal/application/catalog/queries"
)

// NewResourceCommand creates the resource command with subcommands
func NewResourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage catalog resources",
		Long: `Add and list the resources recipes consume and produce.

Raw resources are never expanded into recipes: the planner stops at them
even when a recipe produces them.

Examples:
  factory-planner resource add "Iron Ore" --raw
  factory-planner resource add "Iron Plate" --id iron_plate
  factory-planner resource list --raw`,
	}

	cmd.AddCommand(newResourceAddCommand())
	cmd.AddCommand(newResourceListCommand())

	return cmd
}

func newResourceAddCommand() *cobra.Command {
	var (
		id    string
		isRaw bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				response, err := a.send(&commands.AddResourceCommand{
					Name:  args[0],
					ID:    id,
					IsRaw: isRaw,
				})
				if err != nil {
					return err
				}

				resource := response.(*commands.AddResourceResponse).Resource
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added resource %s (@%s)\n", resource.Name, resource.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Resource id (default: generated from the name)")
	cmd.Flags().BoolVar(&isRaw, "raw", false, "Mark the resource as raw (never produced by recipes)")

	return cmd
}

func newResourceListCommand() *cobra.Command {
	var rawOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				response, err := a.send(&queries.ListCatalogQuery{Resources: true, RawOnly: rawOnly})
				if err != nil {
					return err
				}

				resources := response.(*queries.ListCatalogResponse).Resources
				if len(resources) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No resources found")
					return nil
				}

				styles := newOutputStyles(colorsEnabled(cmd.OutOrStdout()))
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-30s %s\n", "NAME", "ID", "RAW")
				for _, r := range resources {
					raw := ""
					if r.IsRaw {
						raw = styles.Source.Render("yes")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-30s %-30s %s\n", r.Name, r.ID, raw)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&rawOnly, "raw", false, "Only list raw resources")

	return cmd
}
