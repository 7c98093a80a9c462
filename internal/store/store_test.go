package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestOpen_CreatesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	for i := range 3 {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() #%d failed: %v", i, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("database file missing after Open() #%d: %v", i, err)
		}
		for _, table := range []string{"runs", "check_results"} {
			var count int
			if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
				t.Errorf("Open() #%d: query %s failed: %v", i, table, err)
			}
		}
		s.Close()
	}
}

func TestOpen_KeepsRecordedRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.WriteRun(ctx, createTestRun("run-1", "standalone", 1)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	run, err := s.ReadRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadRun() after reopen failed: %v", err)
	}
	if run.Suite != "standalone" {
		t.Errorf("Suite = %q, want standalone", run.Suite)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	if _, err := Open("/nonexistent/dir/results.db"); err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose(t *testing.T) {
	if err := (&Store{}).Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}

	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("first Close() failed: %v", err)
	}
	_ = s.Close()
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)
	if s.DB() != s.db {
		t.Error("DB() should return the store's connection")
	}
	if err := s.DB().Ping(); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name string
		want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.verifyPragma(tt.name, tt.want); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSchema_Columns(t *testing.T) {
	s := createTestStore(t)

	tests := map[string][]string{
		"runs":          {"id", "suite", "seq", "registry_policy", "babel_version", "passed", "failed"},
		"check_results": {"run_id", "check_id", "name", "seq", "pass", "error", "output", "options"},
	}
	for table, want := range tests {
		columns := tableColumns(t, s.db, table)
		for _, col := range want {
			if !slices.Contains(columns, col) {
				t.Errorf("%s table missing column %q, got %v", table, col, columns)
			}
		}
	}
}

func TestConstraint_RunSeqUnique(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.WriteRun(ctx, createTestRun("run-1", "smoke", 1)); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	if err := s.WriteRun(ctx, createTestRun("run-2", "smoke", 1)); err == nil {
		t.Error("expected error for duplicate run seq, got nil")
	}
}

func TestConstraint_ResultNeedsRun(t *testing.T) {
	s := createTestStore(t)

	err := s.WriteCheckResult(context.Background(), createTestResult("missing-run", "check-1", 1, true))
	if err == nil {
		t.Error("expected foreign key error for result without run, got nil")
	}
}

func TestMigrations_FreshDatabase(t *testing.T) {
	s := createTestStore(t)

	if got := userVersion(t, s.db); got != len(migrations) {
		t.Errorf("user_version = %d, want %d", got, len(migrations))
	}
	if indexes := tableIndexes(t, s.db, "check_results"); !slices.Contains(indexes, "idx_check_results_check") {
		t.Errorf("check_results missing check index, got %v", indexes)
	}
}

func TestMigrations_UpgradeFromV0(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	// A database created before any migration existed.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 0"); err != nil {
		t.Fatalf("failed to set user_version: %v", err)
	}
	db.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if got := userVersion(t, s.db); got != len(migrations) {
		t.Errorf("user_version = %d, want %d after migration", got, len(migrations))
	}
	if indexes := tableIndexes(t, s.db, "check_results"); !slices.Contains(indexes, "idx_check_results_check") {
		t.Errorf("expected check index after migration, got %v", indexes)
	}
}

func userVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("failed to get user_version: %v", err)
	}
	return version
}

func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()
	return scanNames(t, rows)
}

func tableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	defer rows.Close()
	return scanNames(t, rows)
}

func scanNames(t *testing.T, rows *sql.Rows) []string {
	t.Helper()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan name: %v", err)
		}
		names = append(names, name)
	}
	return names
}
