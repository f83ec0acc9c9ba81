package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figgo/figgo/internal/validate"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "runs.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestRecordAndGetRun(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	run := &Run{
		NodeID:    "1:2",
		Component: "HeroCard",
		Status:    StatusValidationFailed,
		Findings: []validate.Finding{
			{Code: validate.ErrMissingText, Rule: "text", Message: "text payload missing", NodeID: "1:3"},
		},
		OutputHash: "abc123",
	}
	require.NoError(t, st.RecordRun(ctx, run))

	// RecordRun assigns identity and timestamp.
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "1:2", got.NodeID)
	assert.Equal(t, "HeroCard", got.Component)
	assert.Equal(t, StatusValidationFailed, got.Status)
	assert.Equal(t, "abc123", got.OutputHash)
	require.Len(t, got.Findings, 1)
	assert.Equal(t, validate.ErrMissingText, got.Findings[0].Code)
	assert.Equal(t, "1:3", got.Findings[0].NodeID)
}

func TestGetRunMissing(t *testing.T) {
	st, _ := openTestStore(t)
	_, err := st.GetRun(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListRunsNewestFirst(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := &Run{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			NodeID:    "1:2",
			Component: "HeroCard",
			Status:    StatusOK,
		}
		require.NoError(t, st.RecordRun(ctx, run))
	}

	runs, err := st.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].CreatedAt.After(runs[1].CreatedAt))
	assert.True(t, runs[1].CreatedAt.After(runs[2].CreatedAt))
}

func TestListRunsLimit(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, st.RecordRun(ctx, &Run{NodeID: "1:2", Component: "HeroCard", Status: StatusOK}))
	}
	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestOpenIsIdempotent(t *testing.T) {
	st, path := openTestStore(t)
	require.NoError(t, st.RecordRun(context.Background(), &Run{NodeID: "1:2", Component: "HeroCard", Status: StatusOK}))
	require.NoError(t, st.Close())

	// Reopening applies the schema again without clobbering rows.
	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	runs, err := again.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
