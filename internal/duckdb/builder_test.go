package duckdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		build    func() *Builder
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "select all",
			build:   func() *Builder { return NewQueryBuilder("crate_sizes") },
			wantSQL: "SELECT * FROM crate_sizes",
		},
		{
			name: "columns and aggregates",
			build: func() *Builder {
				return NewQueryBuilder("crate_sizes").Select("run_id", "SUM(size) AS total_bytes")
			},
			wantSQL: "SELECT run_id, SUM(size) AS total_bytes FROM crate_sizes",
		},
		{
			name: "eq",
			build: func() *Builder {
				return NewQueryBuilder("crate_sizes").Eq("binary", "/bin/app")
			},
			wantSQL:  "SELECT * FROM crate_sizes WHERE binary = ?",
			wantArgs: []any{"/bin/app"},
		},
		{
			name: "eq with empty string is skipped",
			build: func() *Builder {
				return NewQueryBuilder("crate_sizes").Eq("binary", "")
			},
			wantSQL: "SELECT * FROM crate_sizes",
		},
		{
			name: "multiple conditions",
			build: func() *Builder {
				return NewQueryBuilder("crate_sizes").
					Eq("binary", "/bin/app").
					Gte("analyzed_at", since).
					Where("size > ?", 0)
			},
			wantSQL:  "SELECT * FROM crate_sizes WHERE binary = ? AND analyzed_at >= ? AND size > ?",
			wantArgs: []any{"/bin/app", since, 0},
		},
		{
			name: "group order limit",
			build: func() *Builder {
				return NewQueryBuilder("crate_sizes").
					Select("run_id", "MAX(analyzed_at) AS analyzed_at").
					GroupBy("run_id").
					OrderBy("-analyzed_at", "run_id").
					Limit(5)
			},
			wantSQL:  "SELECT run_id, MAX(analyzed_at) AS analyzed_at FROM crate_sizes GROUP BY run_id ORDER BY analyzed_at DESC, run_id LIMIT ?",
			wantArgs: []any{5},
		},
		{
			name: "zero limit",
			build: func() *Builder {
				return NewQueryBuilder("crate_sizes").Limit(0)
			},
			wantSQL: "SELECT * FROM crate_sizes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args, err := tt.build().Build()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, q)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	b := NewQueryBuilder("crate_sizes").Eq("run_id", "abc").Limit(1)

	q1, args1, err := b.Build()
	require.NoError(t, err)
	q2, args2, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, q1, q2)
	assert.Equal(t, args1, args2)
}

func TestBuilder_ErrorNoTable(t *testing.T) {
	_, _, err := NewQueryBuilder("").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table name is required")
}
