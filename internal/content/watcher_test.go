package content

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile: {name: Before}"), 0o600))

	store, err := Open(path)
	require.NoError(t, err)

	w, err := NewWatcher(store, zap.NewNop())
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond

	var reloads atomic.Int32
	w.OnReload(func(*Portfolio) { reloads.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("profile: {name: After}"), 0o600))

	require.Eventually(t, func() bool {
		return store.Current().Profile.Name == "After"
	}, 2*time.Second, 10*time.Millisecond)
	require.GreaterOrEqual(t, reloads.Load(), int32(1))
}

func TestWatcherRequiresBackingFile(t *testing.T) {
	store, err := Open("")
	require.NoError(t, err)
	_, err = NewWatcher(store, zap.NewNop())
	require.Error(t, err)
}

func TestWatcherStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile: {name: X}"), 0o600))
	store, err := Open(path)
	require.NoError(t, err)

	w, err := NewWatcher(store, zap.NewNop())
	require.NoError(t, err)
	w.Stop()
	w.Stop()
}
