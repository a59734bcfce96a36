package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/symsize/internal/testutil"
)

func TestBuildProfile(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p, err := BuildProfile(sampleRows, Meta{Binary: "/bin/app", Fingerprint: "abc", AnalyzedAt: at})
	require.NoError(t, err)

	require.Len(t, p.SampleType, 1)
	assert.Equal(t, "size", p.SampleType[0].Type)
	assert.Equal(t, "bytes", p.SampleType[0].Unit)
	assert.Equal(t, at.UnixNano(), p.TimeNanos)
	assert.Equal(t, "/bin/app", p.Mapping[0].File)

	require.Len(t, p.Sample, 2)
	assert.Equal(t, []int64{100}, p.Sample[0].Value)
	assert.Equal(t, "core", p.Sample[0].Location[0].Line[0].Function.Name)
	assert.Equal(t, []string{"alloc"}, p.Sample[1].Label["crate"])
}

func TestBuildProfile_Empty(t *testing.T) {
	p, err := BuildProfile(nil, Meta{})
	require.NoError(t, err)
	assert.Empty(t, p.Sample)
	assert.Zero(t, p.TimeNanos)
}

func TestWritePprof_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sizes.pb.gz")
	require.NoError(t, WritePprof(path, sampleRows, Meta{Binary: "/bin/app"}, testutil.NewTestLogger(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	p, err := profile.Parse(f)
	require.NoError(t, err)

	var total int64
	for _, s := range p.Sample {
		total += s.Value[0]
	}
	assert.Equal(t, int64(Total(sampleRows)), total)
}
