package api

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the store engine for logging and
// metrics.
//
// Implementations should be fast and non-blocking; they run on the
// engine's own execution context, so heavy work delays every cycle.
type Observer interface {
	// OnCycleStart is called when the engine begins a drain cycle.
	// cycle is a per-store sequence number starting at 1.
	OnCycleStart(cycle uint64)

	// OnCycleEnd is called after a cycle finishes. reducers and effects
	// are the counts of jobs applied in the cycle; published reports
	// whether the resulting state was handed to the hub.
	OnCycleEnd(cycle uint64, reducers, effects int, published bool, duration time.Duration)

	// OnQuit is called once, when Quit (graceful=false) or QuitSafely
	// (graceful=true) first takes effect.
	OnQuit(graceful bool)

	// OnDiscard is called when queued jobs are dropped, with the number
	// of jobs discarded.
	OnDiscard(jobs int)

	// OnHistoryError is called when the history recorder fails to append
	// a state. The engine continues; the entry is lost.
	OnHistoryError(err error)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnCycleStart(cycle uint64) {}
func (NoopObserver) OnCycleEnd(cycle uint64, reducers, effects int, published bool, d time.Duration) {
}
func (NoopObserver) OnQuit(graceful bool)    {}
func (NoopObserver) OnDiscard(jobs int)      {}
func (NoopObserver) OnHistoryError(err error) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnCycleStart(cycle uint64) {
	for _, o := range c.observers {
		o.OnCycleStart(cycle)
	}
}

func (c *CompositeObserver) OnCycleEnd(cycle uint64, reducers, effects int, published bool, d time.Duration) {
	for _, o := range c.observers {
		o.OnCycleEnd(cycle, reducers, effects, published, d)
	}
}

func (c *CompositeObserver) OnQuit(graceful bool) {
	for _, o := range c.observers {
		o.OnQuit(graceful)
	}
}

func (c *CompositeObserver) OnDiscard(jobs int) {
	for _, o := range c.observers {
		o.OnDiscard(jobs)
	}
}

func (c *CompositeObserver) OnHistoryError(err error) {
	for _, o := range c.observers {
		o.OnHistoryError(err)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs engine lifecycle
// events using the provided slog.Logger. If logger is nil, slog.Default()
// is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnCycleStart(cycle uint64) {
	o.Logger.Debug("cycle_start",
		slog.Uint64("cycle", cycle),
	)
}

func (o *LoggingObserver) OnCycleEnd(cycle uint64, reducers, effects int, published bool, d time.Duration) {
	o.Logger.Debug("cycle_end",
		slog.Uint64("cycle", cycle),
		slog.Int("reducers", reducers),
		slog.Int("effects", effects),
		slog.Bool("published", published),
		slog.Duration("duration", d),
	)
}

func (o *LoggingObserver) OnQuit(graceful bool) {
	o.Logger.Info("store_quit",
		slog.Bool("graceful", graceful),
	)
}

func (o *LoggingObserver) OnDiscard(jobs int) {
	o.Logger.Warn("jobs_discarded",
		slog.Int("jobs", jobs),
	)
}

func (o *LoggingObserver) OnHistoryError(err error) {
	o.Logger.Error("history_append_failed",
		slog.Any("error", err),
	)
}

// BasicMetrics collects simple counters and aggregate cycle durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	cyclesRun          atomic.Int64
	reducersApplied    atomic.Int64
	effectsRun         atomic.Int64
	statesPublished    atomic.Int64
	jobsDiscarded      atomic.Int64
	historyErrors      atomic.Int64
	totalCycleDuration atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	CyclesRun       int64
	ReducersApplied int64
	EffectsRun      int64
	StatesPublished int64
	JobsDiscarded   int64
	HistoryErrors   int64

	AvgCycleDuration time.Duration
}

func (m *BasicMetrics) OnCycleEnd(cycle uint64, reducers, effects int, published bool, d time.Duration) {
	m.cyclesRun.Add(1)
	m.reducersApplied.Add(int64(reducers))
	m.effectsRun.Add(int64(effects))
	if published {
		m.statesPublished.Add(1)
	}
	m.totalCycleDuration.Add(d.Nanoseconds())
}

func (m *BasicMetrics) OnDiscard(jobs int) {
	m.jobsDiscarded.Add(int64(jobs))
}

func (m *BasicMetrics) OnHistoryError(err error) {
	m.historyErrors.Add(1)
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	cycles := m.cyclesRun.Load()
	totalNs := m.totalCycleDuration.Load()

	var avg time.Duration
	if cycles > 0 {
		avg = time.Duration(totalNs / cycles)
	}

	return BasicMetricsSnapshot{
		CyclesRun:        cycles,
		ReducersApplied:  m.reducersApplied.Load(),
		EffectsRun:       m.effectsRun.Load(),
		StatesPublished:  m.statesPublished.Load(),
		JobsDiscarded:    m.jobsDiscarded.Load(),
		HistoryErrors:    m.historyErrors.Load(),
		AvgCycleDuration: avg,
	}
}
