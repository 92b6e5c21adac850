package visibility

import (
	"sync"
	"time"
)

type key struct {
	session string
	section string
}

type entry struct {
	latch    Latch
	lastSeen time.Time
}

// Registry keeps one latch per (session, section) pair.
type Registry struct {
	mu      sync.Mutex
	entries map[key]*entry
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[key]*entry),
		now:     time.Now,
	}
}

func (r *Registry) get(session, section string) *entry {
	k := key{session, section}
	e, ok := r.entries[k]
	if !ok {
		e = &entry{}
		r.entries[k] = e
	}
	e.lastSeen = r.now()
	return e
}

// Observe reports a viewport sample for a section. It returns true only on
// the sample that first brings the section into view.
func (r *Registry) Observe(session, section string, target, viewport Rect) bool {
	if !Intersects(target, viewport, DefaultRootMargin) {
		r.mu.Lock()
		r.get(session, section)
		r.mu.Unlock()
		return false
	}
	return r.Mark(session, section)
}

// Mark latches a section as seen, returning true the first time.
func (r *Registry) Mark(session, section string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(session, section).latch.Set()
}

// Seen reports whether a section has already been revealed for session.
func (r *Registry) Seen(session, section string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key{session, section}]
	return ok && e.latch.Visible()
}

// Prune drops every entry not touched within olderThan and returns how
// many were removed.
func (r *Registry) Prune(olderThan time.Duration) int {
	cutoff := r.now().Add(-olderThan)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of tracked entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
