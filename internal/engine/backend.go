package engine

// Runner is the backend-facing view of an Engine. Backends drive cycles
// through it and report teardown via Settle.
type Runner interface {
	// RunCycle executes one full drain cycle. Never call it while
	// another RunCycle or DrainAndStop of the same engine is in flight.
	RunCycle()

	// DrainAndStop executes the terminal cycle of a graceful quit and
	// clears the running flag.
	DrainAndStop()

	// Pending reports whether queued work exists.
	Pending() bool

	// Running reports whether cycles should still be executed.
	Running() bool

	// Stopping reports whether a graceful quit was requested.
	Stopping() bool

	// Settle must be called exactly once, after the backend has released
	// everything it exclusively owns. err carries a teardown fault.
	Settle(err error)
}

// Backend is the strategy that schedules engine cycles. All
// implementations provide identical externally observable ordering and
// publish semantics; they differ only in where cycles run.
//
// Implementations must guarantee that two cycles of the same engine
// never execute concurrently.
type Backend interface {
	// Start begins driving r. Called exactly once, before any Wake.
	Start(r Runner)

	// Wake signals that new work or a stop request is pending. It must
	// never block the caller on cycle execution, except for the inline
	// backend whose callers opted into that.
	Wake()
}
