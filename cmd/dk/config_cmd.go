package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/funnyzak/dk/internal/config"
	"github.com/funnyzak/dk/internal/log"
	"github.com/funnyzak/dk/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage dk configuration.

Config file: ~/.config/dk/config.toml`,
		Example: `  dk config init   # Create default config
  dk config show   # Show effective config
  dk config path   # Print the config file path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  dk config init      # Create ~/.config/dk/config.toml
  dk config init -f   # Overwrite existing config
  dk config init -s   # Print default config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if stdout {
				output.FromContext(ctx).Print(config.DefaultFileContent())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *cfg
			if shown.Bria.APIToken != "" {
				shown.Bria.APIToken = "****" // never echo secrets
			}
			return toml.NewEncoder(output.FromContext(cmd.Context()).Writer()).Encode(shown)
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			out := output.FromContext(cmd.Context())
			out.Println(path)
			if _, err := os.Stat(path); err != nil {
				log.FromContext(cmd.Context()).Println("(not created yet: run 'dk config init')")
			}
			return nil
		},
	}
}
