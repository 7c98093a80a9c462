package store

import (
	"context"
	"fmt"
)

// Run is one execution of a suite.
type Run struct {
	ID     string `json:"id"`
	Suite  string `json:"suite"`
	Seq    int64  `json:"seq"`
	Policy string `json:"policy"`
	// Version is the compiler version the run verified.
	Version string `json:"version"`
	Passed  int    `json:"passed"`
	Failed  int    `json:"failed"`
}

// CheckResult is the outcome of one check in a run.
type CheckResult struct {
	RunID   string         `json:"run_id"`
	CheckID string         `json:"check_id"`
	Name    string         `json:"name"`
	Seq     int64          `json:"seq"`
	Pass    bool           `json:"pass"`
	Error   string         `json:"error,omitempty"`
	Output  string         `json:"output,omitempty"`
	Options map[string]any `json:"options"`
}

// NextRunSeq returns the seq the next run should use.
func (s *Store) NextRunSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("next run seq: %w", err)
	}
	return seq, nil
}

// WriteRun inserts a run, or updates its totals when it already exists.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, suite, seq, registry_policy, babel_version, passed, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET passed = excluded.passed, failed = excluded.failed
	`,
		run.ID,
		run.Suite,
		run.Seq,
		run.Policy,
		run.Version,
		run.Passed,
		run.Failed,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteCheckResult inserts a check result. Writing the same check twice for
// a run is a no-op. The run must exist (foreign key constraint).
func (s *Store) WriteCheckResult(ctx context.Context, res CheckResult) error {
	optsJSON, err := marshalOptions(res.Options)
	if err != nil {
		return fmt.Errorf("write check result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO check_results (run_id, check_id, name, seq, pass, error, output, options)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		res.RunID,
		res.CheckID,
		res.Name,
		res.Seq,
		res.Pass,
		res.Error,
		res.Output,
		optsJSON,
	)
	if err != nil {
		return fmt.Errorf("write check result: %w", err)
	}
	return nil
}
