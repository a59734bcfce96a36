// Package analyze implements the 'symsize analyze' command.
package analyze

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeebo/xxh3"

	"github.com/coral-mesh/symsize/internal/analyzer"
	"github.com/coral-mesh/symsize/internal/binary"
	"github.com/coral-mesh/symsize/internal/cli/helpers"
	"github.com/coral-mesh/symsize/internal/demangler"
	"github.com/coral-mesh/symsize/internal/report"
)

// Options holds the resolved settings of one analysis.
type Options struct {
	Targets      report.Targets
	Format       string
	Top          int
	Demangle     string
	NoSynthesize bool
	MaxSize      int64
}

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd(rt *helpers.Runtime) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "analyze <path>",
		Short: "Break down a binary's size by crate",
		Long: `Read the symbol table of a compiled binary (ELF, Mach-O or PE), demangle
each defined symbol and sum symbol sizes by the first path segment of the
demangled name: the crate for Rust, the top-level namespace for C++.

The result is printed as a table sorted by size. Exports are written in the
order HTML, JSON, CSV, pprof, DuckDB.

Examples:
  symsize analyze target/release/app
  symsize analyze target/release/app --top 20
  symsize analyze target/release/app --html report.html --json sizes.json
  symsize analyze target/release/app --pprof sizes.pb.gz && go tool pprof -top sizes.pb.gz
  symsize analyze target/release/app --duckdb history.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyConfigDefaults(cmd, rt, &opts)
			return Run(cmd.Context(), rt, args[0], opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Targets.HTML, "html", "", "Write an HTML report to `file`")
	flags.StringVar(&opts.Targets.JSON, "json", "", "Write a JSON report to `file`")
	flags.StringVar(&opts.Targets.CSV, "csv", "", "Write a CSV report to `file`")
	flags.StringVar(&opts.Targets.Pprof, "pprof", "", "Write a gzipped pprof profile to `file`")
	flags.StringVar(&opts.Targets.DuckDB, "duckdb", "", "Append the report to the DuckDB history database `file`")
	helpers.AddFormatFlag(cmd, &opts.Format, helpers.FormatTable, helpers.AllFormats)
	flags.IntVar(&opts.Top, "top", 0, "Print only the N largest groups (0 prints all; exports are never truncated)")
	flags.StringVar(&opts.Demangle, "demangle", "auto", "Demangler to use (auto, none)")
	flags.BoolVar(&opts.NoSynthesize, "no-synthesize", false, "Do not derive sizes for Mach-O and PE symbols")
	flags.Int64Var(&opts.MaxSize, "max-size", 0, "Refuse inputs larger than `bytes` (default from config)")

	_ = cmd.RegisterFlagCompletionFunc("demangle", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return demangler.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// applyConfigDefaults fills options whose flags were not given from the
// loaded configuration.
func applyConfigDefaults(cmd *cobra.Command, rt *helpers.Runtime, opts *Options) {
	cfg := rt.Config.Analyze
	flags := cmd.Flags()

	if !flags.Changed("format") {
		opts.Format = cfg.Format
	}
	if !flags.Changed("top") {
		opts.Top = cfg.Top
	}
	if !flags.Changed("demangle") {
		opts.Demangle = cfg.Demangle
	}
	if !flags.Changed("no-synthesize") {
		opts.NoSynthesize = !cfg.SynthesizeSizes
	}
	if !flags.Changed("max-size") {
		opts.MaxSize = cfg.MaxFileSize
	}
	if !flags.Changed("duckdb") {
		opts.Targets.DuckDB = rt.Config.History.Database
	}
}

// Run analyzes the binary at path, prints the table to out and performs the
// requested exports.
func Run(ctx context.Context, rt *helpers.Runtime, path string, opts Options, out io.Writer) error {
	logger := rt.Logger.With().Str("binary", path).Logger()

	if err := helpers.ValidateFormat(opts.Format, helpers.AllFormats); err != nil {
		return err
	}
	if opts.Top < 0 {
		return fmt.Errorf("--top must not be negative, got %d", opts.Top)
	}
	d, err := demangler.ByName(opts.Demangle)
	if err != nil {
		return err
	}
	formatter, err := helpers.NewFormatter(helpers.OutputFormat(opts.Format))
	if err != nil {
		return err
	}

	loadOpts := binary.DefaultOptions()
	loadOpts.Logger = logger
	loadOpts.SynthesizeSizes = !opts.NoSynthesize
	if opts.MaxSize > 0 {
		loadOpts.MaxFileSize = opts.MaxSize
	}

	start := time.Now()
	data, err := binary.ReadFile(path, loadOpts)
	if err != nil {
		return err
	}
	fingerprint := fmt.Sprintf("%016x", xxh3.Hash(data))

	f, err := binary.Parse(data, loadOpts)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	sizes, summary, err := analyzer.New(d, logger).Run(f)
	if err != nil {
		return err
	}
	rows := report.FromSizes(sizes)

	logger.Debug().
		Str("format", f.Format()).
		Str("fingerprint", fingerprint).
		Int("skipped", summary.Skipped()).
		Uint64("total_bytes", report.Total(rows)).
		Dur("elapsed", time.Since(start)).
		Msg("Analysis complete")

	if err := formatter.Format(report.Top(rows, opts.Top), out); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	meta := report.Meta{
		Binary:      path,
		Fingerprint: fingerprint,
		AnalyzedAt:  start,
	}
	return report.NewExporter(opts.Targets, out, logger).Run(ctx, rows, meta)
}
