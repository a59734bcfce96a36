package safe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint64ToInt64(t *testing.T) {
	tests := []struct {
		name        string
		input       uint64
		wantValue   int64
		wantClamped bool
	}{
		{name: "zero", input: 0, wantValue: 0},
		{name: "symbol size", input: 4096, wantValue: 4096},
		{name: "max int64", input: math.MaxInt64, wantValue: math.MaxInt64},
		{name: "overflow by one", input: math.MaxInt64 + 1, wantValue: math.MaxInt64, wantClamped: true},
		{name: "max uint64", input: math.MaxUint64, wantValue: math.MaxInt64, wantClamped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := Uint64ToInt64(tt.input)
			assert.Equal(t, tt.wantValue, got)
			assert.Equal(t, tt.wantClamped, clamped)
		})
	}
}
