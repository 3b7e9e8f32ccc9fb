package api

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCompositeObserverFiltersNil verifies nil observers are dropped and
// degenerate compositions collapse.
func TestCompositeObserverFiltersNil(t *testing.T) {
	t.Parallel()

	require.IsType(t, NoopObserver{}, NewCompositeObserver())
	require.IsType(t, NoopObserver{}, NewCompositeObserver(nil, nil))

	m := &BasicMetrics{}
	require.Same(t, Observer(m), NewCompositeObserver(nil, m))
}

// TestCompositeObserverFansOut verifies each wrapped observer sees each
// event exactly once.
func TestCompositeObserverFansOut(t *testing.T) {
	t.Parallel()

	a := &BasicMetrics{}
	b := &BasicMetrics{}
	obs := NewCompositeObserver(a, b)

	obs.OnCycleStart(1)
	obs.OnCycleEnd(1, 3, 1, true, 2*time.Millisecond)
	obs.OnDiscard(4)
	obs.OnHistoryError(errors.New("boom"))
	obs.OnQuit(true)

	for _, m := range []*BasicMetrics{a, b} {
		snap := m.Snapshot()
		require.Equal(t, int64(1), snap.CyclesRun)
		require.Equal(t, int64(3), snap.ReducersApplied)
		require.Equal(t, int64(1), snap.EffectsRun)
		require.Equal(t, int64(1), snap.StatesPublished)
		require.Equal(t, int64(4), snap.JobsDiscarded)
		require.Equal(t, int64(1), snap.HistoryErrors)
	}
}

// TestBasicMetricsAverages verifies average cycle duration math.
func TestBasicMetricsAverages(t *testing.T) {
	t.Parallel()

	m := &BasicMetrics{}
	require.Zero(t, m.Snapshot().AvgCycleDuration, "no cycles, no average")

	m.OnCycleEnd(1, 1, 0, true, 10*time.Millisecond)
	m.OnCycleEnd(2, 1, 0, false, 30*time.Millisecond)

	snap := m.Snapshot()
	require.Equal(t, int64(2), snap.CyclesRun)
	require.Equal(t, int64(1), snap.StatesPublished)
	require.Equal(t, 20*time.Millisecond, snap.AvgCycleDuration)
}

// TestLoggingObserverDefaultsAndRuns verifies the slog-backed observer
// accepts a nil logger and survives every callback.
func TestLoggingObserverDefaultsAndRuns(t *testing.T) {
	t.Parallel()

	obs := NewLoggingObserver(nil)
	require.NotNil(t, obs)

	quiet := NewLoggingObserver(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	quiet.OnCycleStart(1)
	quiet.OnCycleEnd(1, 2, 1, true, time.Millisecond)
	quiet.OnQuit(false)
	quiet.OnDiscard(3)
	quiet.OnHistoryError(errors.New("append failed"))
}
