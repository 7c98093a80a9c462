// Package store keeps the history of verification runs in SQLite.
//
// Each run of a suite is one row in runs; every check it executed is one
// row in check_results, keyed by the check's content hash so the same check
// can be followed across runs.
//
// # Ordering
//
// Runs and results carry a logical seq. Queries order by seq and then by id
// with binary collation, so listings are identical on every machine.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
