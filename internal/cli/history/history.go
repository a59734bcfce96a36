// Package history implements the 'symsize history' command.
package history

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/coral-mesh/symsize/internal/cli/helpers"
	"github.com/coral-mesh/symsize/internal/constants"
	"github.com/coral-mesh/symsize/internal/errors"
	"github.com/coral-mesh/symsize/internal/report"
)

// Options selects what to list.
type Options struct {
	RunID  string
	Binary string
	Since  string
	Limit  int
	Format string
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd(rt *helpers.Runtime) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "history [database]",
		Short: "List analyses recorded with --duckdb",
		Long: `List the analysis runs stored in a DuckDB history database, newest first.

With --run, print the per-crate sizes recorded by that run instead.
The database defaults to history.database from the config file.

Examples:
  symsize history history.duckdb
  symsize history history.duckdb --binary target/release/app --since 168h
  symsize history history.duckdb --run 3f1c...-... --format csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rt.Config.History.Database
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no history database given and history.database is not configured")
			}
			return Run(cmd.Context(), rt, path, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.RunID, "run", "", "Show the rows of one run")
	cmd.Flags().StringVar(&opts.Binary, "binary", "", "Only list runs of this binary path")
	helpers.AddSinceFlag(cmd.Flags(), &opts.Since)
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of runs to list (0 for all)")
	helpers.AddFormatFlag(cmd, &opts.Format, helpers.FormatTable, helpers.AllFormats)

	return cmd
}

// Run opens the database read-only and prints runs or the rows of one run.
func Run(ctx context.Context, rt *helpers.Runtime, path string, opts Options, out io.Writer) error {
	if err := helpers.ValidateFormat(opts.Format, helpers.AllFormats); err != nil {
		return err
	}
	formatter, err := helpers.NewFormatter(helpers.OutputFormat(opts.Format))
	if err != nil {
		return err
	}
	since, err := helpers.ParseSince(opts.Since, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DefaultQueryTimeout)
	defer cancel()

	store, err := report.OpenHistory(ctx, path, true, rt.Logger)
	if err != nil {
		return err
	}
	defer errors.DeferClose(rt.Logger, store, "Failed to close history database")

	if opts.RunID != "" {
		rows, err := store.Rows(ctx, opts.RunID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return fmt.Errorf("run %s not found in %s", opts.RunID, path)
		}
		return formatter.Format(rows, out)
	}

	runs, err := store.Runs(ctx, report.RunFilter{
		Binary: opts.Binary,
		Since:  since,
		Limit:  opts.Limit,
	})
	if err != nil {
		return err
	}
	return formatter.Format(runs, out)
}
