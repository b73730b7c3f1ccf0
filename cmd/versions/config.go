package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/versions/internal/userconfig"
)

const configKeysHelp = `Available keys:
  mirrors     Manifest URLs in priority order (comma-separated)
  strategy    How mirrors are combined (sequential/race)
  timeout     Per-request timeout (e.g. 3s, 500ms)`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage versions configuration",
		Long: `Manage versions configuration settings.

Configuration is stored in ~/.versions/config.toml ($VERSIONS_HOME).
Environment variables and flags override these values.

` + configKeysHelp + `

Examples:
  versions config get mirrors
  versions config set strategy race
  versions config set timeout ""`,
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigListCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long:  "Get the value stored in the config file.\n\n" + configKeysHelp,
		Args:  wrapArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			cfg, err := userconfig.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			value, ok := cfg.Get(key)
			if !ok {
				printAvailableKeys(cmd.ErrOrStderr())
				return usageError(fmt.Errorf("unknown config key: %s", key))
			}

			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. An empty value clears the key.\n\n" + configKeysHelp,
		Args:  wrapArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			cfg, err := userconfig.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if err := cfg.Set(key, value); err != nil {
				printAvailableKeys(cmd.ErrOrStderr())
				return usageError(err)
			}

			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}

			stored, _ := cfg.Get(key)
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, stored)
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Args:  wrapArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := userconfig.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			for _, key := range userconfig.SortedKeys() {
				value, _ := cfg.Get(key)
				if value == "" {
					value = "(default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s  %s\n", key, value)
			}
			return nil
		},
	}
}

func printAvailableKeys(w io.Writer) {
	keys := userconfig.AvailableKeys()
	fmt.Fprintf(w, "Available keys:\n")
	for _, k := range userconfig.SortedKeys() {
		fmt.Fprintf(w, "  %s - %s\n", k, keys[k])
	}
}
