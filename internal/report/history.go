package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coral-mesh/symsize/internal/constants"
	"github.com/coral-mesh/symsize/internal/duckdb"
)

// HistoryRecord is one row of the history table: the size of one group in
// one analysis run.
type HistoryRecord struct {
	RunID      string    `duckdb:"run_id,pk"`
	CrateName  string    `duckdb:"crate_name,pk"`
	Size       uint64    `duckdb:"size"`
	Binary     string    `duckdb:"binary_path"`
	BinaryHash string    `duckdb:"binary_hash"`
	AnalyzedAt time.Time `duckdb:"analyzed_at"`
}

// Run summarizes one stored analysis.
type Run struct {
	RunID      string    `json:"run_id" csv:"run_id" header:"Run ID"`
	Binary     string    `json:"binary" csv:"binary" header:"Binary"`
	BinaryHash string    `json:"binary_hash" csv:"binary_hash" header:"Fingerprint"`
	Groups     int       `json:"groups" csv:"groups" header:"Crates"`
	TotalBytes uint64    `json:"total_bytes" csv:"total_bytes" header:"Total (bytes)"`
	AnalyzedAt time.Time `json:"analyzed_at" csv:"analyzed_at" header:"Analyzed At"`
}

// RunFilter narrows HistoryStore.Runs.
type RunFilter struct {
	Binary string    // exact binary path, empty for all
	Since  time.Time // zero for no lower bound
	Limit  int       // zero for no limit
}

// HistoryStore persists reports in a DuckDB database.
type HistoryStore struct {
	db     *sql.DB
	table  *duckdb.Table[HistoryRecord]
	logger zerolog.Logger
}

// OpenHistory opens the history database at path. Unless readOnly is set,
// the database and its table are created when missing.
func OpenHistory(ctx context.Context, path string, readOnly bool, logger zerolog.Logger) (*HistoryStore, error) {
	db, err := duckdb.OpenDB(path, duckdb.OpenOptions{ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", path, err)
	}

	s := &HistoryStore{
		db:     db,
		table:  duckdb.NewTable[HistoryRecord](db, constants.HistoryTable),
		logger: logger.With().Str("component", "history").Str("db", path).Logger(),
	}

	if !readOnly {
		if err := s.table.CreateTable(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create history table: %w", err)
		}
	}
	return s, nil
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Save stores rows as a new run and returns its ID.
func (s *HistoryStore) Save(ctx context.Context, rows []Row, meta Meta) (string, error) {
	runID := uuid.New().String()
	analyzedAt := meta.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now()
	}
	analyzedAt = analyzedAt.UTC()

	records := make([]*HistoryRecord, len(rows))
	for i, r := range rows {
		records[i] = &HistoryRecord{
			RunID:      runID,
			CrateName:  r.CrateName,
			Size:       r.Size,
			Binary:     meta.Binary,
			BinaryHash: meta.Fingerprint,
			AnalyzedAt: analyzedAt,
		}
	}

	if err := s.table.BatchUpsert(ctx, records); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	s.logger.Debug().Str("run_id", runID).Int("rows", len(records)).Msg("Saved run")
	return runID, nil
}

// Runs lists stored runs, newest first.
func (s *HistoryStore) Runs(ctx context.Context, filter RunFilter) ([]Run, error) {
	qb := duckdb.NewQueryBuilder(s.table.Name()).
		Select(
			"run_id",
			"binary_path",
			"binary_hash",
			"COUNT(*) AS group_count",
			"CAST(SUM(size) AS UBIGINT) AS total_bytes",
			"MAX(analyzed_at) AS last_analyzed",
		).
		Eq("binary_path", filter.Binary)
	if !filter.Since.IsZero() {
		qb.Gte("analyzed_at", filter.Since.UTC())
	}
	query, args, err := qb.
		GroupBy("run_id", "binary_path", "binary_hash").
		OrderBy("-last_analyzed", "run_id").
		Limit(filter.Limit).
		Build()
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("query", duckdb.InterpolateQuery(query, args)).Msg("Listing runs")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Binary, &r.BinaryHash, &r.Groups, &r.TotalBytes, &r.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Rows returns the stored rows of one run in report order.
func (s *HistoryStore) Rows(ctx context.Context, runID string) ([]Row, error) {
	records, err := s.table.List(ctx, map[string]any{"run_id": runID}, "-size", "crate_name")
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{CrateName: rec.CrateName, Size: rec.Size}
	}
	return rows, nil
}
