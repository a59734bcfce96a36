// Package duckdb provides the storage helpers behind the analysis history:
// a small generic table mapper and a SELECT builder.
//
// # Tables
//
// Table[T] maps a struct with `duckdb` tags onto a table, creating it on
// demand and writing batches in one transaction:
//
//	type Row struct {
//	    RunID string `duckdb:"run_id,pk"`
//	    Size  uint64 `duckdb:"size"`
//	}
//
//	table := duckdb.NewTable[Row](db, "rows")
//	err := table.CreateTable(ctx)
//	err = table.BatchUpsert(ctx, []*Row{...})
//
// # Query Builder
//
//	sql, args, err := duckdb.NewQueryBuilder("crate_sizes").
//	    Select("run_id", "SUM(size) AS total_bytes").
//	    Eq("binary", path).
//	    GroupBy("run_id").
//	    OrderBy("-total_bytes").
//	    Limit(10).
//	    Build()
//
// Empty string filters passed to Eq are skipped.
package duckdb
