package duckdb

import (
	"database/sql"
	"net/url"
	"strings"

	duckdbDriver "github.com/marcboeker/go-duckdb"
)

// OpenOptions configures OpenDB.
type OpenOptions struct {
	// ReadOnly opens the database with access_mode=READ_ONLY, so that
	// several readers can share a file.
	ReadOnly bool
}

// OpenDB opens the DuckDB database at path. An empty path or ":memory:"
// opens an in-memory database.
func OpenDB(path string, opts OpenOptions) (*sql.DB, error) {
	params := url.Values{}
	if opts.ReadOnly {
		params.Set("access_mode", "READ_ONLY")
	}

	connector, err := duckdbDriver.NewConnector(buildDSN(path, params), nil)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

// buildDSN merges params into the query string of dsn. Parameters already
// present in dsn win.
func buildDSN(dsn string, params url.Values) string {
	if dsn == ":memory:" {
		dsn = ""
	}
	if len(params) == 0 {
		return dsn
	}

	path, query, _ := strings.Cut(dsn, "?")
	existing, err := url.ParseQuery(query)
	if err != nil {
		return dsn
	}
	for key, values := range params {
		if !existing.Has(key) {
			existing[key] = values
		}
	}
	return path + "?" + existing.Encode()
}
