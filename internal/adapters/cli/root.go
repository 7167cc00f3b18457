package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath     string
	catalogBackend string
	metricsFile    string
	verbose        bool
	noColor        bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "factory-planner",
		Short: "Factory Planner - plan production chains from a recipe catalog",
		Long: `Factory Planner expands a recipe into its full dependency tree, totals the
raw resources it consumes and tells you how many stations of each recipe to build.

Examples:
  factory-planner resource add "Iron Ore" --raw
  factory-planner recipe add "Iron Ingot" --cycle 2 --input "Iron Ore=1" --output "Iron Ingot=1"
  factory-planner recipe find --product "Iron Ingot"
  factory-planner plan --recipe "Screws" --rpm 40
  factory-planner plan --recipe "Screws" --view tree --select iron_rod=cast_iron_rod
  factory-planner catalog import ./catalog.hcl`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogBackend, "catalog-backend", "",
		"Catalog storage: database or files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"Write Prometheus metrics of this run to a textfile")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable coloured output")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewResourceCommand())
	rootCmd.AddCommand(NewRecipeCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewPreferCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
