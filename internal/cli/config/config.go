// Package config implements the 'symsize config' command family.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/symsize/internal/config"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage symsize configuration",
		Long: `Manage symsize configuration.

Configuration Priority:
  1. Command-line flags (highest)
  2. SYMSIZE_* environment variables
  3. Config file (~/.symsize/config.yaml)
  4. Built-in defaults

Environment Variables:
  SYMSIZE_CONFIG    Override config directory (default: ~/.symsize)`,
		// The config commands must work even when the file is invalid.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	cmd.AddCommand(newPathCmd())
	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.NewLoader().ConfigPath())
			return err
		},
	}
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration",
		Long: `Display the configuration after defaults, the config file and
SYMSIZE_* environment variables are merged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(config.NewLoader(), cmd.OutOrStdout())
		},
	}
}

func runView(loader *config.Loader, out io.Writer) error {
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "# %s\n%s", loader.ConfigPath(), data)
	return err
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(config.NewLoader(), force, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func runInit(loader *config.Loader, force bool, out io.Writer) error {
	path := loader.ConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := loader.Save(config.DefaultConfig()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Wrote %s\n", path)
	return err
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(config.NewLoader(), cmd.OutOrStdout())
		},
	}
}

func runValidate(loader *config.Loader, out io.Writer) error {
	if _, err := loader.Load(); err != nil {
		return fmt.Errorf("invalid configuration %s: %w", loader.ConfigPath(), err)
	}
	_, err := fmt.Fprintf(out, "Configuration is valid: %s\n", loader.ConfigPath())
	return err
}
