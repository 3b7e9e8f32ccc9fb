package api

// History is an append-only record of every state value a store's
// reducers produced, including values equal to their predecessor that
// were never published. It exists for diagnostics and audit.
//
// The store engine is the only writer; Snapshot may be called from any
// goroutine. Recorders start disabled and must not incur the append cost
// while disabled.
type History[S any] interface {
	// Enable turns recording on.
	Enable()

	// Disable turns recording off. Already recorded entries are kept.
	Disable()

	// Enabled reports whether Push currently records.
	Enabled() bool

	// Push appends a state. Called by the engine only, and only while
	// enabled.
	Push(state S) error

	// Snapshot returns the recorded states in append order. The result
	// is a copy; mutating it does not affect the recorder.
	Snapshot() ([]S, error)

	// Len returns the number of recorded entries.
	Len() int
}
