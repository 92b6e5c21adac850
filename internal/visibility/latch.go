// Package visibility gates entrance animations: a section animates the
// first time it scrolls into view and stays revealed afterwards.
package visibility

import "sync/atomic"

// Latch is a bool that can only go from false to true.
type Latch struct {
	v atomic.Bool
}

// Set latches the value and reports whether this call flipped it.
func (l *Latch) Set() bool {
	return l.v.CompareAndSwap(false, true)
}

// Visible reports whether the latch has been set.
func (l *Latch) Visible() bool {
	return l.v.Load()
}

// DefaultRootMargin shrinks the viewport so a section counts as visible
// only once it is 100px inside it.
const DefaultRootMargin = -100.0

// Rect is a box in viewport coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) bottom() float64 { return r.Top + r.Height }
func (r Rect) right() float64  { return r.Left + r.Width }

// Grow returns r expanded by margin on every side; a negative margin shrinks it.
func (r Rect) Grow(margin float64) Rect {
	return Rect{
		Top:    r.Top - margin,
		Left:   r.Left - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Intersects reports whether target overlaps viewport after applying
// rootMargin to the viewport. Touching edges do not count.
func Intersects(target, viewport Rect, rootMargin float64) bool {
	root := viewport.Grow(rootMargin)
	if root.Width <= 0 || root.Height <= 0 {
		return false
	}
	return target.Top < root.bottom() &&
		target.bottom() > root.Top &&
		target.Left < root.right() &&
		target.right() > root.Left
}
