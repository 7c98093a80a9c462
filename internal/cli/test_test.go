package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/babelgo/internal/harness"
	"github.com/roach88/babelgo/internal/store"
)

const failingCheck = `name: wrong-output
description: "expects output the compiler does not produce"
source: var a = 1
expect:
  code: var a = 2;
`

const passingCheck = `name: identity
description: "no presets keep the program as is"
source: var a = 1
expect:
  code: var a = 1;
`

func TestTestCommandMissingArgs(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	_, err := execute(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentSuite(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, "/nonexistent/suite")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "failed to load suite")
}

func TestTestCommandStandaloneSuite(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, standaloneSuite())
	require.NoError(t, err)

	assert.Contains(t, out, "PASS es2015-no-commonjs")
	assert.Contains(t, out, "PASS custom-preset")
	assert.Contains(t, out, "Summary: 12 passed, 0 failed, 12 total")
	assert.Contains(t, out, "All checks passed")
	assert.NotContains(t, out, "FAIL")
}

func TestTestCommandFilter(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, standaloneSuite(), "--filter", "^eval-")
	require.NoError(t, err)

	assert.Contains(t, out, "PASS eval-no-commonjs")
	assert.Contains(t, out, "PASS eval-commonjs")
	assert.Contains(t, out, "Summary: 2 passed, 0 failed, 2 total")
}

func TestTestCommandInvalidFilter(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, standaloneSuite(), "--filter", "(")
	require.Error(t, err)
	assert.Contains(t, out, "invalid --filter")
}

func TestTestCommandInvalidRegistry(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, standaloneSuite(), "--registry", "global")
	require.Error(t, err)
	assert.Contains(t, out, "unknown registry policy")
}

func TestTestCommandFailure(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "01-identity.yaml", passingCheck)
	writeTestFile(t, dir, "02-wrong.yaml", failingCheck)

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, out, "PASS identity")
	assert.Contains(t, out, "FAIL wrong-output")
	assert.Contains(t, out, "  output differs from expected code:")
	assert.Contains(t, out, "Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandJSON(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "01-identity.yaml", passingCheck)
	writeTestFile(t, dir, "02-wrong.yaml", failingCheck)

	cmd := NewTestCommand(&RootOptions{Format: "json"})
	out, err := execute(cmd, dir)
	require.Error(t, err)

	var resp struct {
		Status string         `json:"status"`
		RunID  string         `json:"run_id"`
		Data   harness.Report `json:"data"`
		Error  *CLIError      `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, resp.RunID, resp.Data.RunID)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Results, 2)
	assert.Equal(t, "wrong-output", resp.Data.Results[1].Name)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "1 check(s) failed", resp.Error.Message)
}

func TestTestCommandRecordsRuns(t *testing.T) {
	dir := t.TempDir()
	suite := filepath.Join(dir, "suite")
	check := writeTestFile(t, suite, "01-identity.yaml", passingCheck)
	db := filepath.Join(dir, "results.db")

	_, err := execute(NewTestCommand(&RootOptions{Format: "text"}), suite, "--db", db)
	require.NoError(t, err)

	// Break the check so the second run regresses.
	writeTestFile(t, suite, filepath.Base(check), strings.Replace(passingCheck, "code: var a = 1;", "code: var a = 3;", 1))
	out, err := execute(NewTestCommand(&RootOptions{Format: "text"}), suite, "--db", db)
	require.Error(t, err)
	assert.Contains(t, out, "Regressions: identity")

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(t.Context(), "suite", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, 1, runs[1].Passed)
}

func TestTestCommandPresetsDir(t *testing.T) {
	dir := t.TempDir()
	presets := writeTestFile(t, dir, "presets.cue", `preset: arrows: plugins: ["transform-es2015-arrow-functions"]`)
	writeTestFile(t, dir, "suite/01-arrows.yaml", `name: arrows
description: "a preset defined in CUE resolves by name"
source: const f = () => 1
options:
  presets: [arrows]
expect:
  code: |-
    const f = function () {
      return 1;
    };
`)

	cmd := NewTestCommand(&RootOptions{Format: "text"})
	out, err := execute(cmd, filepath.Join(dir, "suite"), "--presets-dir", presets)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS arrows")
}

func TestTestHelpText(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{Format: "text"})
	assert.Contains(t, cmd.Long, "Exit codes")
	assert.Contains(t, cmd.Long, "--db")
}
