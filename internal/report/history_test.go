package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/symsize/internal/testutil"
)

func openTestHistory(t *testing.T, path string, readOnly bool) *HistoryStore {
	t.Helper()
	store, err := OpenHistory(context.Background(), path, readOnly, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHistoryStore_RoundTrip(t *testing.T) {
	ctx, cancel := testutil.NewTestContext()
	defer cancel()

	path := testutil.NewTestDatabasePath(t)
	store := openTestHistory(t, path, false)

	first := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	runA, err := store.Save(ctx, sampleRows, Meta{Binary: "/bin/a", Fingerprint: "aaaa", AnalyzedAt: first})
	require.NoError(t, err)
	_, err = uuid.Parse(runA)
	require.NoError(t, err)

	runB, err := store.Save(ctx, []Row{{CrateName: "std", Size: 7}}, Meta{Binary: "/bin/b", Fingerprint: "bbbb", AnalyzedAt: second})
	require.NoError(t, err)
	assert.NotEqual(t, runA, runB)

	runs, err := store.Runs(ctx, RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, runB, runs[0].RunID, "newest first")
	assert.Equal(t, "/bin/b", runs[0].Binary)
	assert.Equal(t, 1, runs[0].Groups)
	assert.Equal(t, uint64(7), runs[0].TotalBytes)

	assert.Equal(t, runA, runs[1].RunID)
	assert.Equal(t, "aaaa", runs[1].BinaryHash)
	assert.Equal(t, 2, runs[1].Groups)
	assert.Equal(t, uint64(150), runs[1].TotalBytes)
	assert.True(t, first.Equal(runs[1].AnalyzedAt))

	rows, err := store.Rows(ctx, runA)
	require.NoError(t, err)
	assert.Equal(t, sampleRows, rows)
}

func TestHistoryStore_RunFilter(t *testing.T) {
	ctx, cancel := testutil.NewTestContext()
	defer cancel()

	store := openTestHistory(t, testutil.NewTestDatabasePath(t), false)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, bin := range []string{"/bin/a", "/bin/a", "/bin/b"} {
		_, err := store.Save(ctx, sampleRows, Meta{Binary: bin, AnalyzedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter RunFilter
		want   int
	}{
		{name: "all", filter: RunFilter{}, want: 3},
		{name: "binary", filter: RunFilter{Binary: "/bin/a"}, want: 2},
		{name: "since", filter: RunFilter{Since: base.Add(90 * time.Minute)}, want: 1},
		{name: "limit", filter: RunFilter{Limit: 2}, want: 2},
		{name: "no match", filter: RunFilter{Binary: "/bin/c"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := store.Runs(ctx, tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, runs)
			assert.Len(t, runs, tt.want)
		})
	}
}

func TestHistoryStore_ReadOnly(t *testing.T) {
	ctx, cancel := testutil.NewTestContext()
	defer cancel()

	path := testutil.NewTestDatabasePath(t)
	rw, err := OpenHistory(ctx, path, false, testutil.NewTestLogger(t))
	require.NoError(t, err)
	_, err = rw.Save(ctx, sampleRows, Meta{Binary: "/bin/a"})
	require.NoError(t, err)
	require.NoError(t, rw.Close())

	ro := openTestHistory(t, path, true)
	runs, err := ro.Runs(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	_, err = ro.Save(ctx, sampleRows, Meta{Binary: "/bin/a"})
	assert.Error(t, err)
}
