// Package store provides SQLite-backed history of applied volume requests.
//
// Every request the engine handles can be recorded as one row in the
// changes table, including check-mode runs (dry_run = 1) and requests that
// turned out to be no-ops (changed = 0).
//
// # Ordering
//
// Rows are ordered by seq, an autoincrement key. recorded_at is informational
// only and is never used for ordering.
//
// # App keys
//
// app_key holds the NFC-normalized app name so that queries match names
// regardless of how the caller composed accented characters. app_name keeps
// the exact string that was applied.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
package store
