package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListRuns returns the most recent runs first. An empty suite lists every
// suite; limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, suite string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, suite, seq, registry_policy, babel_version, passed, failed
		FROM runs
		WHERE ? = '' OR suite = ?
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT ?
	`, suite, suite, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Suite, &r.Seq, &r.Policy, &r.Version, &r.Passed, &r.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, suite, seq, registry_policy, babel_version, passed, failed
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Suite, &r.Seq, &r.Policy, &r.Version, &r.Passed, &r.Failed)
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

// RunResults returns the check results of a run in execution order.
// Returns an empty slice (not nil) for a run without results.
func (s *Store) RunResults(ctx context.Context, runID string) ([]CheckResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, check_id, name, seq, pass, error, output, options
		FROM check_results
		WHERE run_id = ?
		ORDER BY seq ASC, check_id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query check results: %w", err)
	}
	defer rows.Close()

	results := []CheckResult{}
	for rows.Next() {
		res, err := scanCheckResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check results: %w", err)
	}
	return results, nil
}

// LastResult returns the most recent result recorded for a check before
// the run with seq before. ok is false when the check has no earlier result.
func (s *Store) LastResult(ctx context.Context, checkID string, before int64) (res CheckResult, ok bool, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.run_id, c.check_id, c.name, c.seq, c.pass, c.error, c.output, c.options
		FROM check_results c
		JOIN runs r ON c.run_id = r.id
		WHERE c.check_id = ? AND r.seq < ?
		ORDER BY r.seq DESC
		LIMIT 1
	`, checkID, before)
	res, err = scanCheckResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CheckResult{}, false, nil
	}
	if err != nil {
		return CheckResult{}, false, err
	}
	return res, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheckResult(row scanner) (CheckResult, error) {
	var res CheckResult
	var optsJSON string
	if err := row.Scan(&res.RunID, &res.CheckID, &res.Name, &res.Seq, &res.Pass, &res.Error, &res.Output, &optsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CheckResult{}, err
		}
		return CheckResult{}, fmt.Errorf("scan check result: %w", err)
	}
	opts, err := unmarshalOptions(optsJSON)
	if err != nil {
		return CheckResult{}, err
	}
	res.Options = opts
	return res, nil
}
