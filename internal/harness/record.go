package harness

import (
	"context"
	"fmt"

	"github.com/roach88/babelgo/internal/babel"
	"github.com/roach88/babelgo/internal/store"
)

// recorder writes a run and its results to the store as they complete.
type recorder struct {
	st     *store.Store
	report *Report
	run    store.Run
}

func startRecording(ctx context.Context, st *store.Store, report *Report) (*recorder, error) {
	seq, err := st.NextRunSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	run := store.Run{
		ID:      report.RunID,
		Suite:   report.Suite,
		Seq:     seq,
		Policy:  string(report.Policy),
		Version: babel.Version,
	}
	if err := st.WriteRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}
	return &recorder{st: st, report: report, run: run}, nil
}

func (r *recorder) record(ctx context.Context, c *Check, res CheckResult) error {
	if res.ID == "" {
		return nil
	}

	prev, ok, err := r.st.LastResult(ctx, res.ID, r.run.Seq)
	if err != nil {
		return fmt.Errorf("failed to read previous result of %s: %w", c.Name, err)
	}
	if ok && prev.Pass && !res.Pass {
		r.report.Regressions = append(r.report.Regressions, c.Name)
	}

	failure := res.Failure
	if failure == "" {
		failure = res.CallError
	}
	err = r.st.WriteCheckResult(ctx, store.CheckResult{
		RunID:   r.run.ID,
		CheckID: res.ID,
		Name:    res.Name,
		Seq:     res.Seq,
		Pass:    res.Pass,
		Error:   failure,
		Output:  res.Output,
		Options: c.Options,
	})
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", c.Name, err)
	}
	return nil
}

func (r *recorder) finish(ctx context.Context) error {
	r.run.Passed = r.report.Passed
	r.run.Failed = r.report.Failed
	if err := r.st.WriteRun(ctx, r.run); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}
