package animation

import (
	"math"
	"testing"
	"time"
)

func TestControllerForwardCompletesOnTick(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	c := NewController(100*time.Millisecond, Linear)

	var seen []Status
	c.OnStatus(func(s Status) { seen = append(seen, s) })

	c.Forward(clock.Now())
	if !c.IsAnimating() {
		t.Fatalf("controller should be animating after Forward")
	}
	if c.Tick(clock.Advance(50 * time.Millisecond)) != true {
		t.Fatalf("Tick at half time should report running")
	}
	if math.Abs(c.Value()-0.5) > 1e-9 {
		t.Fatalf("Value() = %v, want 0.5", c.Value())
	}
	if c.Tick(clock.Advance(60*time.Millisecond)) != false {
		t.Fatalf("Tick past the end should report finished")
	}
	if c.Status() != Completed || c.Value() != 1 {
		t.Fatalf("status=%v value=%v, want completed at 1", c.Status(), c.Value())
	}
	if len(seen) != 2 || seen[0] != Forwarding || seen[1] != Completed {
		t.Fatalf("status changes = %v", seen)
	}
}

func TestControllerZeroDurationIsInstant(t *testing.T) {
	c := NewController(0, nil)
	c.Forward(time.Unix(0, 0))
	if c.Status() != Completed || c.Value() != 1 {
		t.Fatalf("zero duration forward: status=%v value=%v", c.Status(), c.Value())
	}
	c.Reverse(time.Unix(0, 0))
	if c.Status() != Dismissed || c.Value() != 0 {
		t.Fatalf("zero duration reverse: status=%v value=%v", c.Status(), c.Value())
	}
}

func TestControllerCompleteSnaps(t *testing.T) {
	c := NewController(time.Second, EaseIn)
	c.Forward(time.Unix(0, 0))
	c.Tick(time.Unix(0, 0).Add(100 * time.Millisecond))
	c.Complete()
	if c.Status() != Completed || c.Progress() != 1 {
		t.Fatalf("Complete: status=%v progress=%v", c.Status(), c.Progress())
	}
	// ticking a finished controller is a no-op
	if c.Tick(time.Unix(10, 0)) {
		t.Fatalf("Tick on completed controller reported running")
	}
}

func TestReverseFromMidway(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewController(100*time.Millisecond, Linear)
	c.Forward(start)
	c.Tick(start.Add(40 * time.Millisecond))
	c.Reverse(start.Add(40 * time.Millisecond))
	c.Tick(start.Add(90 * time.Millisecond))
	if math.Abs(c.Value()-0.2) > 1e-9 {
		t.Fatalf("Value() = %v, want 0.2", c.Value())
	}
}

func TestCurvesHitEndpoints(t *testing.T) {
	for name, curve := range map[string]Curve{
		"linear":    Linear,
		"easeIn":    EaseIn,
		"easeOut":   EaseOut,
		"easeInOut": EaseInOut,
		"inQuad":    EaseInQuad,
		"outQuad":   EaseOutQuad,
	} {
		if got := curve(0); math.Abs(got) > 1e-6 {
			t.Errorf("%s(0) = %v", name, got)
		}
		if got := curve(1); math.Abs(got-1) > 1e-6 {
			t.Errorf("%s(1) = %v", name, got)
		}
		prev := 0.0
		for i := 1; i <= 10; i++ {
			v := curve(float64(i) / 10)
			if v+1e-9 < prev {
				t.Errorf("%s not monotonic at %d: %v < %v", name, i, v, prev)
			}
			prev = v
		}
	}
}
