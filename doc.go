// Package stato provides a single-writer, concurrent state container for Go.
//
// Stato holds one authoritative value of type S. Any number of goroutines
// submit work against it; exactly one internal writer applies that work
// serially, so listeners only ever see a strictly ordered, non-overlapping
// sequence of states. It runs fully in Go, supports several execution
// backends behind one contract, and integrates cleanly into existing
// codebases.
//
// # Core Concepts
//
// The stato programming model is intentionally small and idiomatic:
//
//  1. Store
//  2. Reducer and Action
//  3. Completion
//  4. Backend
//  5. Hub and History
//
// # Store
//
// The Store owns the state value and provides APIs to:
//   - submit reducers (state transformations)
//   - submit actions (read-only effects against the updated state)
//   - read a snapshot of the current state
//   - subscribe to published states
//   - quit, forced or gracefully
//
// Every store publishes its initial state once at construction, then once
// per cycle whose reducers actually changed the value; cycles that leave
// the value unchanged publish nothing.
//
// # Reducer and Action
//
// A Reducer is the fundamental unit of change:
//
//	type Reducer[S any] func(S) S
//
// Reducers are:
//   - pure: no side effects, no retention of arguments
//   - ordered: applied exactly once, in submission order
//   - exclusive: at most one runs at any instant, per store
//
// An Action is a read-only callback. It observes the state after every
// reducer submitted before it has been applied.
//
// # Completion
//
// Every submission returns a Completion, a tri-state future that settles
// to done once the job ran, or to discarded if the store quit first.
// Waiting on it is opt-in; fire-and-forget callers drop it.
//
// # Backend
//
// Backends schedule the store's drain cycles. All of them uphold the same
// ordering and publish semantics:
//
//   - dedicated-thread: one owned goroutine with a wake/park loop
//   - shared-pool: an owned worker pool, one cycle scheduled at a time
//   - caller-supplied-executor: like shared-pool, on your executor
//   - synchronous-inline: cycles run on the submitting goroutine
//   - cooperative-single-thread: cycles posted to a host loop (e.g. UI)
//
// The process-wide default is the dedicated backend; see
// SetDefaultBackend.
//
// # Hub and History
//
// Published states are delivered through a Hub on a dispatch context
// distinct from the writer. An optional History recorder keeps every
// value reducers produced, published or not, either in memory or in a
// SQLite database.
//
// # Quitting
//
// Quit stops immediately and discards queued work; QuitSafely performs
// exactly one more full drain cycle first. Both are idempotent, callable
// from any goroutine including the store's own callbacks, and return a
// handle that resolves when the backend has fully torn down.
//
// For examples, see the /examples directory or the project README.
package stato
