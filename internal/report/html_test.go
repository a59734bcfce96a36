package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/symsize/internal/testutil"
)

var dataLine = regexp.MustCompile(`const data = (.*);`)

func TestEmbeddedTemplate(t *testing.T) {
	assert.Equal(t, 1, bytes.Count(htmlTemplate, []byte("{{DATA}}")))
}

func TestRenderHTML(t *testing.T) {
	rows := []Row{
		{CrateName: "core", Size: 100},
		{CrateName: "<unknown>", Size: 5},
	}

	page, err := RenderHTML(rows)
	require.NoError(t, err)
	assert.NotContains(t, string(page), "{{DATA}}")
	assert.NotContains(t, string(page), "<unknown>", "names must be escaped inside the script")

	m := dataLine.FindSubmatch(page)
	require.Len(t, m, 2)

	var decoded []Row
	require.NoError(t, json.Unmarshal(m[1], &decoded))
	assert.Equal(t, rows, decoded)
}

func TestRenderHTML_Empty(t *testing.T) {
	page, err := RenderHTML(nil)
	require.NoError(t, err)
	assert.Contains(t, string(page), "const data = [];")
}

func TestRenderTemplate_Placeholders(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		want    string
		wantErr bool
	}{
		{name: "single", tmpl: "<p>{{DATA}}</p>", want: `<p>[{"crate_name":"a","size":1}]</p>`},
		{name: "missing", tmpl: "<p></p>", wantErr: true},
		{name: "duplicated", tmpl: "{{DATA}}{{DATA}}", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := renderTemplate([]byte(tt.tmpl), []Row{{CrateName: "a", Size: 1}})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrTemplate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestWriteHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, WriteHTML(path, []Row{{CrateName: "core", Size: 100}}, testutil.NewTestLogger(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `{"crate_name":"core","size":100}`)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}

func TestWriteHTML_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 1<<20), 0o600))
	require.NoError(t, WriteHTML(path, nil, testutil.NewTestLogger(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "xxxx")
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}
