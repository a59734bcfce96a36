package demangler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuto(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "legacy rust",
			input: "_ZN4core3fmt5write17h0123456789abcdefE",
			want:  "core::fmt::write",
		},
		{
			name:  "legacy rust with escapes",
			input: "_ZN5alloc3vec12Vec$LT$T$GT$4push17h0123456789abcdefE",
			want:  "alloc::vec::Vec<T>::push",
		},
		{
			name:  "rust v0",
			input: "_RNvCs15kBYyAo9fc_7mycrate7example",
			want:  "mycrate::example",
		},
		{
			name:  "c++ drops parameters",
			input: "_ZN3foo3barEv",
			want:  "foo::bar",
		},
		{
			name:  "mach-o legacy rust",
			input: "__ZN4core3fmt5write17h0123456789abcdefE",
			want:  "core::fmt::write",
		},
		{
			name:  "mach-o rust v0",
			input: "__RNvCs15kBYyAo9fc_7mycrate7example",
			want:  "mycrate::example",
		},
		{
			name:  "mach-o c keeps underscore",
			input: "_main",
			want:  "_main",
		},
		{
			name:  "plain c",
			input: "main",
			want:  "main",
		},
		{
			name:  "go",
			input: "runtime.gcStart",
			want:  "runtime.gcStart",
		},
		{
			name:  "invalid mangling",
			input: "_ZN",
			want:  "_ZN",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Auto.Demangle(tt.input))
		})
	}
}

func TestNone(t *testing.T) {
	const name = "_ZN4core3fmt5write17h0123456789abcdefE"
	assert.Equal(t, name, None.Demangle(name))
}

func TestFunc(t *testing.T) {
	upper := Func(func(s string) string { return s + "!" })
	assert.Equal(t, "x!", upper.Demangle("x"))
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "auto", input: "auto"},
		{name: "none", input: "none"},
		{name: "case insensitive", input: "AUTO"},
		{name: "unknown", input: "swift", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ByName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "auto, none")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, d)
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"auto", "none"}, Names())
}
