package core

import "time"

const (
	DoubleClickTime     = 500 * time.Millisecond
	DoubleClickDistance = 4 // pixels
)

// ClickTracker turns a second press of the same button, close in time and
// space to the first, into a double click. A third press starts over.
type ClickTracker struct {
	MaxDelay time.Duration
	MaxDist  float32

	armed  bool
	button PointerButton
	pos    Vec2
	at     time.Time
}

func NewClickTracker() ClickTracker {
	return ClickTracker{MaxDelay: DoubleClickTime, MaxDist: DoubleClickDistance}
}

// Press records a press and reports whether it completes a double click.
func (c *ClickTracker) Press(b PointerButton, pos Vec2, now time.Time) bool {
	if c.armed && b == c.button && now.Sub(c.at) <= c.MaxDelay && pos.DistSq(c.pos) <= c.MaxDist*c.MaxDist {
		c.armed = false
		return true
	}
	c.armed, c.button, c.pos, c.at = true, b, pos, now
	return false
}
