package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a test run with minimal required fields.
func createTestRun(id, suite string, seq int64) Run {
	return Run{
		ID:      id,
		Suite:   suite,
		Seq:     seq,
		Policy:  "fresh",
		Version: "6.26.0",
	}
}

// createTestResult creates a test check result with minimal required fields.
func createTestResult(runID, checkID string, seq int64, pass bool) CheckResult {
	return CheckResult{
		RunID:   runID,
		CheckID: checkID,
		Name:    "check " + checkID,
		Seq:     seq,
		Pass:    pass,
		Options: map[string]any{},
	}
}
