package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/babelgo/internal/store"
)

func seedHistory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	runs := []store.Run{
		{ID: "run-a", Suite: "standalone", Seq: 1, Policy: "fresh", Version: "6.26.0", Passed: 2},
		{ID: "run-b", Suite: "standalone", Seq: 2, Policy: "fresh", Version: "6.26.0", Passed: 1, Failed: 1},
		{ID: "run-c", Suite: "other", Seq: 3, Policy: "shared", Version: "6.26.0", Passed: 1},
	}
	for _, r := range runs {
		require.NoError(t, st.WriteRun(ctx, r))
	}
	results := []store.CheckResult{
		{RunID: "run-b", CheckID: "c1", Name: "react", Seq: 1, Pass: true, Options: map[string]any{}},
		{RunID: "run-b", CheckID: "c2", Name: "arrow-plugin", Seq: 2, Error: "output differs from expected code:\n--- expected", Options: map[string]any{}},
	}
	for _, r := range results {
		require.NoError(t, st.WriteCheckResult(ctx, r))
	}
	return path
}

func TestHistoryListsRuns(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "run-a")
	assert.Contains(t, out, "run-b")
	assert.Contains(t, out, "run-c")
}

func TestHistorySuiteFilterJSON(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db, "--suite", "standalone", "--limit", "1")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-b", resp.Data[0].ID)
}

func TestHistoryShowsRun(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db, "run-b")
	require.NoError(t, err)
	assert.Contains(t, out, "Run run-b: suite standalone, 1 passed, 1 failed (version 6.26.0)")
	assert.Contains(t, out, "arrow-plugin")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "output differs from expected code:")
	assert.NotContains(t, out, "--- expected")
}

func TestHistoryShowsRunJSON(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db, "run-b")
	require.NoError(t, err)

	var resp struct {
		Data RunDetail `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-b", resp.Data.Run.ID)
	require.Len(t, resp.Data.Results, 2)
	assert.Equal(t, "react", resp.Data.Results[0].Name)
	assert.False(t, resp.Data.Results[1].Pass)
}

func TestHistoryUnknownRun(t *testing.T) {
	db := seedHistory(t)

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db, "run-z")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "run not found: run-z")
}

func TestHistoryEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryMissingDatabase(t *testing.T) {
	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Contains(t, out, "database not found")
}

func TestHistoryRequiresDB(t *testing.T) {
	_, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}
