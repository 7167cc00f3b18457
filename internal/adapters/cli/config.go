package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factory-planner/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration settings",
		Long: `Show Factory Planner configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (FP_* prefix, e.g. FP_PLANNER_MAX_DEPTH)
2. Config file (config.yaml)
3. Default values

Recipe preferences are stored in ~/.factory-planner/preferences.json

Example:
  factory-planner config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.DefaultConfig()
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Factory Planner Configuration")
			fmt.Fprintln(out, "=============================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:        %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "  Preferred recipes:  %d\n", len(userCfg.Selections))

			fmt.Fprintln(out, "\nPlanner:")
			fmt.Fprintf(out, "  Max Depth:          %d\n", cfg.Planner.MaxDepth)
			fmt.Fprintf(out, "  Scale Max Depth:    %d\n", cfg.Planner.ScaleMaxDepth)
			fmt.Fprintf(out, "  Max Scale Passes:   %d\n", cfg.Planner.MaxScalePasses)
			fmt.Fprintf(out, "  Integer Scales:     %t\n", cfg.Planner.IntegerScales)
			fmt.Fprintf(out, "  Detect Cycles:      %t\n", cfg.Planner.DetectCycles)
			fmt.Fprintf(out, "  Alternative Order:  %s\n", cfg.Planner.AlternativeOrder)

			fmt.Fprintln(out, "\nCatalog:")
			fmt.Fprintf(out, "  Backend:            %s\n", cfg.Catalog.Backend)
			fmt.Fprintf(out, "  Data Dir:           %s\n", cfg.Catalog.DataDir)
			fmt.Fprintf(out, "  Files:              %s, %s\n", cfg.Catalog.ResourcesFile, cfg.Catalog.RecipesFile)

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:               %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:               %s\n", cfg.Database.Path)
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:                %s\n", maskPassword(cfg.Database.URL))
			default:
				fmt.Fprintf(out, "  Host:               %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:               %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:           %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:               %s\n", cfg.Database.User)
				fmt.Fprintf(out, "  Max Connections:    %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:              %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:             %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:             %s\n", cfg.Logging.Output)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:            %t\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Fprintf(out, "  Textfile:           %s\n", cfg.Metrics.TextfilePath)
			}

			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
