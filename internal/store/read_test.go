package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-a", "smoke", 1)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-b", "other", 2)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-c", "smoke", 3)))

	runs, err := s.ListRuns(ctx, "", 0)
	require.NoError(t, err)
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"run-c", "run-b", "run-a"}, ids)

	runs, err = s.ListRuns(ctx, "smoke", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-c", runs[0].ID)
}

func TestListRuns_EmptyIsNotNil(t *testing.T) {
	s := createTestStore(t)
	runs, err := s.ListRuns(context.Background(), "", 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadRun(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRunResults_Ordered(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-a", "smoke", 1)))
	require.NoError(t, s.WriteCheckResult(ctx, createTestResult("run-a", "b", 2, true)))
	require.NoError(t, s.WriteCheckResult(ctx, createTestResult("run-a", "a", 1, false)))

	results, err := s.RunResults(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].CheckID)
	assert.False(t, results[0].Pass)
	assert.Equal(t, "b", results[1].CheckID)
	assert.Equal(t, map[string]any{}, results[1].Options)
}

func TestLastResult(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-a", "smoke", 1)))
	require.NoError(t, s.WriteRun(ctx, createTestRun("run-b", "smoke", 2)))

	pass := createTestResult("run-a", "check-1", 1, true)
	pass.Output = "42;"
	require.NoError(t, s.WriteCheckResult(ctx, pass))
	require.NoError(t, s.WriteCheckResult(ctx, createTestResult("run-b", "check-1", 1, false)))

	got, ok, err := s.LastResult(ctx, "check-1", 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "run-a", got.RunID)
	assert.True(t, got.Pass)
	assert.Equal(t, "42;", got.Output)

	got, ok, err = s.LastResult(ctx, "check-1", 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "run-b", got.RunID)

	_, ok, err = s.LastResult(ctx, "check-1", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
