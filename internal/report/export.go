package report

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/errors"
)

// Targets names the output file of each export. Empty paths are skipped.
type Targets struct {
	HTML   string
	JSON   string
	CSV    string
	Pprof  string
	DuckDB string
}

// Empty reports whether no export was requested.
func (t Targets) Empty() bool {
	return t == Targets{}
}

// Exporter writes the requested exports and announces each one on out.
type Exporter struct {
	targets Targets
	out     io.Writer
	logger  zerolog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(targets Targets, out io.Writer, logger zerolog.Logger) *Exporter {
	return &Exporter{
		targets: targets,
		out:     out,
		logger:  logger.With().Str("component", "exporter").Logger(),
	}
}

type export struct {
	kind string
	path string
	run  func(context.Context) error
	// skipEmpty skips the export when there are no rows to write.
	skipEmpty bool
}

// Run performs the exports in the order HTML, JSON, CSV, pprof, DuckDB and
// stops at the first failure. Exports that already finished are kept.
func (e *Exporter) Run(ctx context.Context, rows []Row, meta Meta) error {
	if e.targets.Empty() {
		e.logger.Debug().Msg("No exports requested")
		return nil
	}

	exports := []export{
		{kind: "HTML", path: e.targets.HTML, run: func(context.Context) error {
			return WriteHTML(e.targets.HTML, rows, e.logger)
		}},
		{kind: "JSON", path: e.targets.JSON, run: func(context.Context) error {
			return WriteJSON(e.targets.JSON, rows, e.logger)
		}},
		{kind: "CSV", path: e.targets.CSV, run: func(context.Context) error {
			return WriteCSV(e.targets.CSV, rows, e.logger)
		}},
		{kind: "pprof", path: e.targets.Pprof, run: func(context.Context) error {
			return WritePprof(e.targets.Pprof, rows, meta, e.logger)
		}},
		{kind: "DuckDB", path: e.targets.DuckDB, skipEmpty: true, run: func(ctx context.Context) error {
			return e.saveHistory(ctx, rows, meta)
		}},
	}

	for _, ex := range exports {
		if ex.path == "" {
			continue
		}
		if ex.skipEmpty && len(rows) == 0 {
			e.logger.Warn().Str("path", ex.path).Msgf("Nothing to record, skipping %s export", ex.kind)
			continue
		}
		if err := ex.run(ctx); err != nil {
			return fmt.Errorf("%s export: %w", ex.kind, err)
		}
		if _, err := fmt.Fprintf(e.out, "%s report: %s\n", ex.kind, ex.path); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) saveHistory(ctx context.Context, rows []Row, meta Meta) error {
	store, err := OpenHistory(ctx, e.targets.DuckDB, false, e.logger)
	if err != nil {
		return err
	}
	defer errors.DeferClose(e.logger, store, "Failed to close history database")

	runID, err := store.Save(ctx, rows, meta)
	if err != nil {
		return err
	}
	e.logger.Info().Str("run_id", runID).Str("db", e.targets.DuckDB).Msg("Recorded analysis run")
	return nil
}
