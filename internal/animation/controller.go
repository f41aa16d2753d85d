// Package animation holds per-record animation state. A Controller never
// schedules itself: its value only moves when Tick is called with the current
// time, which keeps every animation owned by whoever ticks it.
package animation

import (
	"fmt"
	"time"
)

// Status is where a controller stands.
//
//	             Forward
//	Dismissed ────────────► Completed
//	    ▲                       │
//	    └───────────────────────┘
//	             Reverse
type Status int

const (
	Dismissed Status = iota
	Forwarding
	Reversing
	Completed
)

func (s Status) String() string {
	switch s {
	case Dismissed:
		return "dismissed"
	case Forwarding:
		return "forward"
	case Reversing:
		return "reverse"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Controller moves a value between 0 and 1 over Duration.
type Controller struct {
	Duration time.Duration
	Curve    Curve

	status   Status
	start    time.Time
	from     float64
	target   float64
	progress float64
	value    float64
	onStatus func(Status)
}

// NewController creates a dismissed controller.
func NewController(d time.Duration, curve Curve) *Controller {
	if curve == nil {
		curve = Linear
	}
	return &Controller{Duration: d, Curve: curve}
}

// OnStatus registers the single status listener; it fires on every change.
func (c *Controller) OnStatus(fn func(Status)) {
	c.onStatus = fn
}

// Forward animates toward 1 starting at now.
func (c *Controller) Forward(now time.Time) {
	c.animateTo(1, Forwarding, now)
}

// Reverse animates toward 0 starting at now.
func (c *Controller) Reverse(now time.Time) {
	c.animateTo(0, Reversing, now)
}

func (c *Controller) animateTo(target float64, direction Status, now time.Time) {
	c.from = c.value
	c.target = target
	c.start = now
	c.progress = 0
	c.setStatus(direction)
	if c.Duration <= 0 || c.from == target {
		c.finish()
	}
}

// Tick advances the animation to now. It returns true while the controller
// is still running after the tick.
func (c *Controller) Tick(now time.Time) bool {
	if !c.IsAnimating() {
		return false
	}
	elapsed := now.Sub(c.start)
	if elapsed < 0 {
		elapsed = 0
	}
	p := float64(elapsed) / float64(c.Duration)
	if p >= 1 {
		c.finish()
		return false
	}
	c.progress = p
	c.value = Lerp(c.from, c.target, c.Curve(p))
	return true
}

// Complete snaps a running animation to its target.
func (c *Controller) Complete() {
	if c.IsAnimating() {
		c.finish()
	}
}

func (c *Controller) finish() {
	c.value = c.target
	c.progress = 1
	if c.target >= 1 {
		c.setStatus(Completed)
	} else {
		c.setStatus(Dismissed)
	}
}

func (c *Controller) setStatus(s Status) {
	if c.status == s {
		return
	}
	c.status = s
	if c.onStatus != nil {
		c.onStatus(s)
	}
}

// Value is the eased value in [0,1].
func (c *Controller) Value() float64 { return c.value }

// Progress is the linear fraction of the current run that has elapsed.
func (c *Controller) Progress() float64 { return c.progress }

// Status returns the current status.
func (c *Controller) Status() Status { return c.status }

// IsAnimating reports whether a Forward or Reverse run is in progress.
func (c *Controller) IsAnimating() bool {
	return c.status == Forwarding || c.status == Reversing
}
