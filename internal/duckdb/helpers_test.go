package duckdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterpolateQuery(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)

	tests := []struct {
		name  string
		query string
		args  []any
		want  string
	}{
		{
			name:  "no args",
			query: "SELECT * FROM crate_sizes",
			want:  "SELECT * FROM crate_sizes",
		},
		{
			name:  "string with quote",
			query: "SELECT * FROM t WHERE crate_name = ?",
			args:  []any{"o'brien"},
			want:  "SELECT * FROM t WHERE crate_name = 'o''brien'",
		},
		{
			name:  "numbers",
			query: "SELECT ?, ?, ?",
			args:  []any{42, uint64(7), 1.5},
			want:  "SELECT 42, 7, 1.5",
		},
		{
			name:  "bool and null",
			query: "SELECT ?, ?, ?",
			args:  []any{true, false, nil},
			want:  "SELECT true, false, NULL",
		},
		{
			name:  "time",
			query: "SELECT * FROM t WHERE analyzed_at >= ?",
			args:  []any{ts},
			want:  "SELECT * FROM t WHERE analyzed_at >= '2024-03-01T12:30:00.0000005Z'",
		},
		{
			name:  "time with monotonic reading",
			query: "SELECT ?",
			args:  []any{time.Now()},
		},
		{
			name:  "other types are quoted",
			query: "SELECT ?",
			args:  []any{time.Second},
			want:  "SELECT '1s'",
		},
		{
			name:  "whitespace",
			query: "SELECT *\n\tFROM t",
			want:  "SELECT * FROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateQuery(tt.query, tt.args)
			if tt.want == "" {
				assert.NotContains(t, got, "m=")
				assert.NotContains(t, got, "?")
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
