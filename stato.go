package stato

import (
	"database/sql"

	"github.com/petrijr/stato/internal/history"
	"github.com/petrijr/stato/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Store[S any]    = api.Store[S]
	Reducer[S any]  = api.Reducer[S]
	Action[S any]   = api.Action[S]
	Listener[S any] = api.Listener[S]
	History[S any]  = api.History[S]
	Hub[S any]      = api.Hub[S]

	Completion   = api.Completion
	Outcome      = api.Outcome
	Shutdown     = api.Shutdown
	Subscription = api.Subscription
	Executor     = api.Executor
	ExecutorFunc = api.ExecutorFunc

	Observer             = api.Observer
	NoopObserver         = api.NoopObserver
	LoggingObserver      = api.LoggingObserver
	CompositeObserver    = api.CompositeObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export completion outcomes for convenience.

const (
	OutcomePending   = api.OutcomePending
	OutcomeDone      = api.OutcomeDone
	OutcomeDiscarded = api.OutcomeDiscarded
)

// New creates a Store holding initial, driven by the process-wide
// default backend. Use Configure for anything beyond the defaults.
func New[S any](initial S) (Store[S], error) {
	return Configure(initial).Build()
}

// NewHub creates a standalone listener hub. Pass a nil Executor for an
// ordered, hub-owned dispatch goroutine.
func NewHub[S any](exec Executor) *Hub[S] {
	return api.NewHub[S](exec)
}

// History constructors
// These wrap the internal/history package so external callers never
// need to import internal packages. Recorders start disabled; call
// Enable before expecting entries.

// NewMemoryHistory returns an in-memory recorder.
func NewMemoryHistory[S any]() History[S] {
	return history.NewMemory[S]()
}

// NewSQLiteHistory returns a recorder that persists state snapshots in a
// SQLite database. The schema is created if missing.
func NewSQLiteHistory[S any](db *sql.DB) (History[S], error) {
	return history.NewSQLite[S](db)
}

// Reducer composition helpers.

// Compose chains reducers left to right into one. Composing none returns
// the identity reducer.
func Compose[S any](reducers ...Reducer[S]) Reducer[S] {
	return func(state S) S {
		for _, r := range reducers {
			state = r(state)
		}
		return state
	}
}

// When guards fn with pred: states failing the predicate pass through
// unchanged, which also suppresses the publish for that submission.
func When[S any](pred func(S) bool, fn Reducer[S]) Reducer[S] {
	return func(state S) S {
		if !pred(state) {
			return state
		}
		return fn(state)
	}
}
