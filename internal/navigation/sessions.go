package navigation

import (
	"context"
	"sync"
	"time"
)

// navigateGrace is added to the collapse delay when waiting for a deferred
// scroll. A navigation not fired by then has been superseded.
const navigateGrace = 100 * time.Millisecond

type session struct {
	spy      *Spy
	signal   *Signal
	lastSeen time.Time
}

// Sessions keeps one Spy per browser session. Each spy is attached to its
// own scroll Signal, which the client feeds with page offsets.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*session
	opts    []Option
	now     func() time.Time
}

// NewSessions creates an empty set; opts apply to every spy it creates.
func NewSessions(opts ...Option) *Sessions {
	return &Sessions{
		entries: make(map[string]*session),
		opts:    opts,
		now:     time.Now,
	}
}

func (s *Sessions) get(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		e = &session{spy: NewSpy(nil, s.opts...), signal: NewSignal()}
		e.spy.Attach(e.signal)
		s.entries[id] = e
	}
	e.lastSeen = s.now()
	return e
}

// State returns the session's current state.
func (s *Sessions) State(id string) State {
	return s.get(id).spy.State()
}

// Layout replaces the section positions reported by the client.
func (s *Sessions) Layout(id string, anchors []Anchor) State {
	return s.get(id).spy.SetLayout(anchors)
}

// Scroll publishes a page offset on the session's signal.
func (s *Sessions) Scroll(id string, offset float64) State {
	e := s.get(id)
	e.signal.Publish(offset)
	return e.spy.State()
}

// ToggleMenu opens or closes the session's mobile menu.
func (s *Sessions) ToggleMenu(id string) State {
	return s.get(id).spy.ToggleMenu()
}

// Navigate asks the session's spy to scroll to section and waits for the
// scroll to be released. It reports false when a newer navigation for the
// same session took over, or when ctx ended first.
func (s *Sessions) Navigate(ctx context.Context, id string, section Section) (float64, bool, error) {
	spy := s.get(id).spy
	fired := make(chan struct{}, 1)
	target, err := spy.Navigate(section, func(float64) { fired <- struct{}{} })
	if err != nil {
		return 0, false, err
	}

	wait := time.NewTimer(spy.CollapseDelay() + navigateGrace)
	defer wait.Stop()
	select {
	case <-fired:
		return target, true, nil
	case <-wait.C:
		return target, false, nil
	case <-ctx.Done():
		return target, false, ctx.Err()
	}
}

// Prune closes and drops every session idle for longer than olderThan.
func (s *Sessions) Prune(olderThan time.Duration) int {
	cutoff := s.now().Add(-olderThan)
	s.mu.Lock()
	var stale []*Spy
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.spy)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, spy := range stale {
		spy.Close()
	}
	return len(stale)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close closes every spy, cancelling pending navigations.
func (s *Sessions) Close() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*session)
	s.mu.Unlock()

	for _, e := range entries {
		e.spy.Close()
	}
}
