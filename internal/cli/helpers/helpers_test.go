package helpers

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFormatFlag(t *testing.T) {
	var format string
	cmd := &cobra.Command{Use: "test"}
	AddFormatFlag(cmd, &format, FormatTable, AllFormats)

	flag := cmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
	assert.Equal(t, "table", flag.DefValue)
	assert.Contains(t, flag.Usage, "table, json, csv")

	require.NoError(t, cmd.Flags().Parse([]string{"-o", "csv"}))
	assert.Equal(t, "csv", format)
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, ValidateFormat("json", AllFormats))

	err := ValidateFormat("yaml", []OutputFormat{FormatTable, FormatJSON})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "yaml", must be one of: table, json`)
}

func TestAddSinceFlag(t *testing.T) {
	var since string
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddSinceFlag(flags, &since)

	require.NoError(t, flags.Parse([]string{"--since", "24h"}))
	assert.Equal(t, "24h", since)
}

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "empty", input: "", want: time.Time{}},
		{name: "duration", input: "24h", want: now.Add(-24 * time.Hour)},
		{name: "rfc3339", input: "2024-05-01T10:00:00Z", want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "local datetime", input: "2024-05-01T10:00:00", want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{name: "date", input: "2024-05-01", want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{name: "negative duration", input: "-1h", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSince(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestNewRuntime(t *testing.T) {
	rt := NewRuntime()
	require.NotNil(t, rt.Config)
	assert.Equal(t, "table", rt.Config.Analyze.Format)
}
