// Package store provides SQLite-backed persistence for realization filters.
//
// One row per ensemble, keyed by the canonical ident string, holds:
//   - the staged filter configuration (JSON)
//   - the committed filter configuration (JSON)
//   - the committed realization numbers (JSON array)
//   - seq, a logical save counter
//
// Rows are upserted, so saving a filter twice keeps one row with the latest
// state. Restoring is the caller's job: committed realizations are advisory,
// and callers are expected to re-run filtering against the live realization
// list.
//
// # Deterministic Query Results
//
// All list queries ORDER BY ensemble_ident COLLATE BINARY so golden output
// does not depend on insertion order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
