package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromSizes(t *testing.T) {
	tests := []struct {
		name  string
		sizes map[string]uint64
		want  []Row
	}{
		{
			name:  "descending by size",
			sizes: map[string]uint64{"alloc": 50, "core": 100, "std": 75},
			want: []Row{
				{CrateName: "core", Size: 100},
				{CrateName: "std", Size: 75},
				{CrateName: "alloc", Size: 50},
			},
		},
		{
			name:  "ties by name",
			sizes: map[string]uint64{"b": 10, "a": 10, "c": 20},
			want: []Row{
				{CrateName: "c", Size: 20},
				{CrateName: "a", Size: 10},
				{CrateName: "b", Size: 10},
			},
		},
		{
			name:  "empty",
			sizes: map[string]uint64{},
			want:  []Row{},
		},
		{
			name:  "nil",
			sizes: nil,
			want:  []Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromSizes(tt.sizes)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTop(t *testing.T) {
	rows := []Row{{"a", 3}, {"b", 2}, {"c", 1}}

	assert.Equal(t, rows, Top(rows, 0))
	assert.Equal(t, rows, Top(rows, -1))
	assert.Equal(t, rows, Top(rows, 5))
	assert.Equal(t, []Row{{"a", 3}, {"b", 2}}, Top(rows, 2))
}

func TestTotal(t *testing.T) {
	assert.Equal(t, uint64(0), Total(nil))
	assert.Equal(t, uint64(6), Total([]Row{{"a", 3}, {"b", 2}, {"c", 1}}))
}
