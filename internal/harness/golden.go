package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/babelgo/internal/canon"
	"github.com/roach88/babelgo/internal/testutil"
)

// Summary is the deterministic part of a report: which checks ran, in which
// order, and whether they passed.
func (r *Report) Summary() map[string]any {
	results := make([]any, len(r.Results))
	for i, res := range r.Results {
		results[i] = map[string]any{
			"name": res.Name,
			"seq":  res.Seq,
			"pass": res.Pass,
		}
	}
	return map[string]any{
		"suite":   r.Suite,
		"policy":  string(r.Policy),
		"passed":  r.Passed,
		"failed":  r.Failed,
		"results": results,
	}
}

// RunWithGolden runs suite and compares the report summary, as canonical
// JSON, against testdata/golden/<suite>.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, suite *Suite, opts RunOptions) (*Report, error) {
	t.Helper()

	if opts.IDs == nil {
		opts.IDs = testutil.NewSequentialIDGenerator(suite.Name)
	}
	report, err := Run(context.Background(), suite, opts)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, suite.Name, report); err != nil {
		return nil, err
	}
	return report, nil
}

// AssertGolden compares an existing report against a golden file.
func AssertGolden(t *testing.T, name string, report *Report) error {
	t.Helper()

	data, err := canon.Marshal(report.Summary())
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
