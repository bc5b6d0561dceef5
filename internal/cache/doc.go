// Package cache keeps theme documents in memory in front of a
// file-per-document [Backend].
//
// # Entries
//
// Every known theme has one entry, keyed by [theme.Key] of its name:
//
//   - Resident: the authoritative value lives in memory.
//   - Placeholder: the theme exists on disk and has not been loaded.
//
// [New] registers every document found on disk as a Placeholder. Writes
// ([Store.Insert], [Store.Set]) only touch memory; [Store.Flush] later
// reconciles disk with the map. Placeholders are never promoted by
// reads and Resident entries are never demoted.
//
// # Concurrency
//
// One reader/writer lock guards the whole map. Locks are only ever
// tried, never waited for: an operation that cannot take the lock at
// once fails with [ErrWouldBlock] and the caller decides whether to
// retry. Disk I/O triggered by an operation happens while the lock is
// held.
//
// A panic inside a critical section poisons the store. From then on
// every operation fails with [ErrLockPoisoned] until the process
// restarts.
//
// # Reconciliation
//
// [Store.Flush] deletes disk files that have no entry and rewrites every
// Resident entry. There is no dirty tracking; every flush rewrites all
// Resident documents. The scheduler package runs it periodically.
package cache
