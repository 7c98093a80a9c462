package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Standalone(t *testing.T) {
	suite, err := LoadSuite("testdata/standalone")
	require.NoError(t, err)

	report, err := RunWithGolden(t, suite, RunOptions{})
	require.NoError(t, err)
	assert.Equal(t, "standalone-1", report.RunID)
}

func TestReportSummary_OmitsRunSpecificFields(t *testing.T) {
	report := &Report{
		RunID:  "some-uuid",
		Suite:  "s",
		Policy: PolicyFresh,
		Results: []CheckResult{
			{ID: "abc", Name: "a", Seq: 1, Pass: false, Output: "x;", Failure: "boom"},
		},
		Failed: 1,
	}

	assert.Equal(t, map[string]any{
		"suite":   "s",
		"policy":  "fresh",
		"passed":  0,
		"failed":  1,
		"results": []any{map[string]any{"name": "a", "seq": int64(1), "pass": false}},
	}, report.Summary())
}
