package navigation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSessionsScrollAndLayout(t *testing.T) {
	s := NewSessions()
	defer s.Close()

	assert.Equal(t, State{Active: Home}, s.State("a"))

	s.Layout("a", testLayout())
	st := s.Scroll("a", 1700)
	assert.Equal(t, State{Active: Projects, Scrolled: true}, st)

	assert.Equal(t, State{Active: Home}, s.State("b"), "sessions are independent")
	assert.Equal(t, 2, s.Len())
}

func TestSessionsNavigate(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSessions(WithCollapseDelay(20 * time.Millisecond))
	defer s.Close()
	s.Layout("a", testLayout())

	target, scrolled, err := s.Navigate(context.Background(), "a", About)
	require.NoError(t, err)
	assert.True(t, scrolled)
	assert.Equal(t, 736.0, target)

	require.True(t, s.ToggleMenu("a").MenuOpen)
	start := time.Now()
	target, scrolled, err = s.Navigate(context.Background(), "a", Skills)
	require.NoError(t, err)
	assert.True(t, scrolled)
	assert.Equal(t, 2536.0, target)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.False(t, s.State("a").MenuOpen)

	_, _, err = s.Navigate(context.Background(), "b", Skills)
	assert.ErrorIs(t, err, ErrUnknownSection, "no layout reported yet")
}

func TestSessionsNavigateSuperseded(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSessions(WithCollapseDelay(30 * time.Millisecond))
	defer s.Close()
	s.Layout("a", testLayout())
	s.ToggleMenu("a")

	var (
		wg    sync.WaitGroup
		first bool
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, first, _ = s.Navigate(context.Background(), "a", Skills)
	}()

	require.Eventually(t, func() bool { return !s.State("a").MenuOpen }, time.Second, time.Millisecond)
	_, second, err := s.Navigate(context.Background(), "a", About)
	require.NoError(t, err)
	wg.Wait()

	assert.False(t, first)
	assert.True(t, second)
}

func TestSessionsPrune(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewSessions(WithCollapseDelay(time.Hour))
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	s.Layout("old", testLayout())
	s.ToggleMenu("old")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, scrolled, err := s.Navigate(ctx, "old", Contact)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, scrolled)

	now = now.Add(time.Hour)
	s.State("fresh")

	assert.Equal(t, 1, s.Prune(30*time.Minute))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, State{Active: Home}, s.State("old"), "pruned session starts over")
	s.Close()
	assert.Zero(t, s.Len())
}
