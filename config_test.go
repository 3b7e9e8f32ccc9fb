package stato

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSetDefaultBackend verifies the process-wide default is validated
// and restored. Not parallel: it mutates process-wide state.
func TestSetDefaultBackend(t *testing.T) {
	original := DefaultBackend()
	t.Cleanup(func() {
		require.NoError(t, SetDefaultBackend(original))
	})

	require.Equal(t, KindDedicated, original)

	require.NoError(t, SetDefaultBackend(KindSharedPool))
	require.Equal(t, KindSharedPool, DefaultBackend())

	require.NoError(t, SetDefaultBackend(KindInline))
	require.Equal(t, KindInline, DefaultBackend())

	require.Error(t, SetDefaultBackend(Kind("carrier-pigeon")))
	require.Error(t, SetDefaultBackend(KindExecutor), "executor kind needs per-store resources")
	require.Error(t, SetDefaultBackend(KindCooperative), "cooperative kind needs per-store resources")
	require.Equal(t, KindInline, DefaultBackend(), "failed sets leave the default untouched")
}

// TestDefaultBackendDrivesNew verifies New consumes the process-wide
// default at construction time.
func TestDefaultBackendDrivesNew(t *testing.T) {
	original := DefaultBackend()
	t.Cleanup(func() {
		require.NoError(t, SetDefaultBackend(original))
	})

	require.NoError(t, SetDefaultBackend(KindInline))

	store, err := New(0)
	require.NoError(t, err)

	c := store.Update(func(s int) int { return s + 1 })
	require.Equal(t, OutcomeDone, c.Outcome(), "inline default applies synchronously")
	require.Equal(t, 1, store.State())

	require.NoError(t, store.Quit().Wait(testCtx(t)))
}
