// Package store provides SQLite-backed durable storage for activity records.
//
// The store is a single append-only table, logs, with three indexes:
//   - idx_player on player_name (prefix search by actor)
//   - idx_time on time_stamp (most-recent-first ordering)
//   - idx_coords on (world, x, y, z) (exact block lookups)
//
// # Database Configuration
//
//   - WAL mode: readers never block the writer
//   - synchronous=NORMAL: group commit; a crash may lose the last few
//     transactions but never corrupts the file
//   - case_sensitive_like=ON: LIKE is a case-sensitive prefix operator and
//     can use idx_player
//   - busy_timeout=5000
//
// A Store is not safe for concurrent use. The engine owns it from a single
// worker goroutine; nothing else touches the handle.
package store
