// Package report turns aggregated symbol sizes into sorted rows and writes
// them out: HTML page, JSON, CSV, pprof profile and a DuckDB history table.
package report
