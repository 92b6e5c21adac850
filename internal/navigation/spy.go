package navigation

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrClosed is returned by a Spy after Close.
var ErrClosed = errors.New("navigation spy closed")

// State is the navigation bar state derived from scrolling and clicks.
type State struct {
	Active   Section `json:"active"`
	Scrolled bool    `json:"scrolled"`
	MenuOpen bool    `json:"menuOpen"`
}

// Spy tracks the page offset against the section layout and sequences
// navigation requests. It is safe for concurrent use.
type Spy struct {
	mu      sync.Mutex
	anchors []Anchor
	offset  float64
	state   State
	delay   time.Duration
	pending *time.Timer
	gen     uint64
	closed  bool
	changes *Feed[State]
	detach  []func()
}

// Option configures a Spy.
type Option func(*Spy)

// WithCollapseDelay overrides MenuCollapseDelay.
func WithCollapseDelay(d time.Duration) Option {
	return func(s *Spy) { s.delay = d }
}

// NewSpy creates a spy over the given layout, starting at the top of the page.
func NewSpy(anchors []Anchor, opts ...Option) *Spy {
	s := &Spy{
		delay:   MenuCollapseDelay,
		state:   State{Active: Home},
		changes: NewFeed[State](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.anchors = sortAnchors(anchors)
	s.state.Active = ActiveAt(s.anchors, 0)
	return s
}

func sortAnchors(anchors []Anchor) []Anchor {
	sorted := append([]Anchor(nil), anchors...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Top < sorted[j].Top })
	return sorted
}

// CollapseDelay is how long a navigation waits for an open menu to close.
func (s *Spy) CollapseDelay() time.Duration {
	return s.delay
}

// State returns the current state.
func (s *Spy) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetLayout replaces the section positions, e.g. after a resize, and
// re-derives the active section for the current offset.
func (s *Spy) SetLayout(anchors []Anchor) State {
	s.mu.Lock()
	s.anchors = sortAnchors(anchors)
	next := s.state
	next.Active = ActiveAt(s.anchors, s.offset)
	return s.commit(next)
}

// OnScroll records a new page offset.
func (s *Spy) OnScroll(offset float64) State {
	s.mu.Lock()
	s.offset = offset
	next := s.state
	next.Scrolled = IsScrolled(offset)
	next.Active = ActiveAt(s.anchors, offset)
	return s.commit(next)
}

// ToggleMenu opens or closes the mobile menu.
func (s *Spy) ToggleMenu() State {
	s.mu.Lock()
	next := s.state
	next.MenuOpen = !next.MenuOpen
	return s.commit(next)
}

// CloseMenu closes the mobile menu.
func (s *Spy) CloseMenu() State {
	s.mu.Lock()
	next := s.state
	next.MenuOpen = false
	return s.commit(next)
}

// commit stores next, releases the lock and notifies subscribers when the
// state changed. Must be called with s.mu held.
func (s *Spy) commit(next State) State {
	changed := next != s.state && !s.closed
	s.state = next
	s.mu.Unlock()
	if changed {
		s.changes.Publish(next)
	}
	return next
}

// Navigate scrolls to section by calling scrollTo with the target offset.
// When the mobile menu is open it is closed first and the scroll starts
// after the collapse delay; otherwise scrollTo runs before Navigate returns.
// A newer Navigate supersedes a pending one, which then never fires.
func (s *Spy) Navigate(section Section, scrollTo func(target float64)) (float64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, ErrClosed
	}

	var anchor *Anchor
	for i := range s.anchors {
		if s.anchors[i].Section == section {
			anchor = &s.anchors[i]
			break
		}
	}
	if anchor == nil {
		s.mu.Unlock()
		return 0, ErrUnknownSection
	}
	target := ScrollTarget(anchor.Top-s.offset, s.offset)

	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}

	if !s.state.MenuOpen {
		s.mu.Unlock()
		scrollTo(target)
		return target, nil
	}

	gen := s.gen
	s.pending = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		stale := s.closed || s.gen != gen
		if !stale {
			s.pending = nil
		}
		s.mu.Unlock()
		if !stale {
			scrollTo(target)
		}
	})
	next := s.state
	next.MenuOpen = false
	s.commit(next)
	return target, nil
}

// Subscribe registers fn for state changes.
func (s *Spy) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

// Attach feeds the spy from a scroll signal until detach or Close is called.
func (s *Spy) Attach(signal *Feed[float64]) (detach func()) {
	unsubscribe := signal.Subscribe(func(offset float64) { s.OnScroll(offset) })
	s.mu.Lock()
	s.detach = append(s.detach, unsubscribe)
	s.mu.Unlock()
	return unsubscribe
}

// Close cancels any pending navigation and detaches from every signal.
func (s *Spy) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	detach := s.detach
	s.detach = nil
	s.mu.Unlock()

	for _, fn := range detach {
		fn()
	}
}
