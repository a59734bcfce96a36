// Package cli assembles the symsize command tree.
package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/symsize/internal/cli/analyze"
	configcmd "github.com/coral-mesh/symsize/internal/cli/config"
	"github.com/coral-mesh/symsize/internal/cli/helpers"
	"github.com/coral-mesh/symsize/internal/cli/history"
	"github.com/coral-mesh/symsize/internal/config"
	"github.com/coral-mesh/symsize/internal/logging"
	"github.com/coral-mesh/symsize/pkg/version"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewRootCmd builds the symsize command tree.
func NewRootCmd() *cobra.Command {
	rt := helpers.NewRuntime()

	var (
		logLevel  string
		logPretty bool
	)

	rootCmd := &cobra.Command{
		Use:   "symsize",
		Short: "symsize - where do the bytes in your binary come from?",
		Long: `symsize reads the symbol table of a compiled binary and attributes every
defined symbol's size to the crate (Rust) or namespace (C++) it came from.

Supported formats: ELF, Mach-O (thin and universal) and PE/COFF.

Outputs:
- Console table sorted by size (or JSON/CSV with --format)
- HTML, JSON and CSV reports
- pprof profiles for 'go tool pprof'
- A DuckDB history of past analyses ('symsize history')`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("log-level") {
				if !slices.Contains(logLevels, logLevel) {
					return fmt.Errorf("invalid --log-level %q, must be one of: %s", logLevel, strings.Join(logLevels, ", "))
				}
				cfg.Logging.Level = logLevel
			}
			if cmd.Flags().Changed("log-pretty") {
				cfg.Logging.Pretty = logPretty
			}

			rt.Config = cfg
			logCfg := logging.DefaultConfig()
			logCfg.Level = cfg.Logging.Level
			logCfg.Pretty = cfg.Logging.Pretty
			logCfg.Output = cmd.ErrOrStderr()
			rt.Logger = logging.New(logCfg)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		fmt.Sprintf("Log level (%s)", strings.Join(logLevels, ", ")))
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", true, "Human-readable log output")

	rootCmd.AddCommand(analyze.NewAnalyzeCmd(rt))
	rootCmd.AddCommand(history.NewHistoryCmd(rt))
	rootCmd.AddCommand(configcmd.NewConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "symsize version %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "Git commit: %s\n", version.GitCommit)
			_, _ = fmt.Fprintf(out, "Build date: %s\n", version.BuildDate)
			_, _ = fmt.Fprintf(out, "Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
