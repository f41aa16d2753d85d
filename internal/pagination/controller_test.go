package pagination

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"chatlist/internal/animation"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFetcher) FetchNextPage(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func newTestController(f Fetcher, clock animation.Clock) *Controller {
	opts := DefaultOptions()
	opts.Clock = clock
	return NewController(f, opts)
}

func TestOnScrollTriggersPastThreshold(t *testing.T) {
	f := &countingFetcher{}
	c := newTestController(f, animation.NewManualClock(epoch))

	job, ok := c.OnScroll(Telemetry{Offset: 80, MaxExtent: 100}, 10)
	if !ok {
		t.Fatalf("expected fetch at 80 >= 75")
	}
	if !c.State().Loading {
		t.Fatalf("controller not loading after trigger")
	}
	if _, again := c.OnScroll(Telemetry{Offset: 80, MaxExtent: 100}, 10); again {
		t.Fatalf("second trigger while loading")
	}

	done := job.Run(context.Background())
	if f.calls.Load() != 1 {
		t.Fatalf("fetcher calls = %d", f.calls.Load())
	}
	if !c.Complete(done) {
		t.Fatalf("completion rejected")
	}
	if c.State().Loading {
		t.Fatalf("still loading after completion")
	}
}

func TestOnScrollGating(t *testing.T) {
	tests := []struct {
		name     string
		tel      Telemetry
		items    int
		lastPage bool
		want     bool
	}{
		{name: "below threshold", tel: Telemetry{Offset: 74, MaxExtent: 100}, items: 5},
		{name: "at threshold", tel: Telemetry{Offset: 75, MaxExtent: 100}, items: 5, want: true},
		{name: "no items", tel: Telemetry{Offset: 90, MaxExtent: 100}},
		{name: "last page", tel: Telemetry{Offset: 90, MaxExtent: 100}, items: 5, lastPage: true},
		{name: "nothing to scroll", tel: Telemetry{}, items: 5, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.LastPage = tt.lastPage
			c := NewController(&countingFetcher{}, opts)
			if _, got := c.OnScroll(tt.tel, tt.items); got != tt.want {
				t.Fatalf("OnScroll = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThresholdIsClamped(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{{-1, 0}, {0.5, 0.5}, {3, 1}} {
		opts := DefaultOptions()
		opts.Threshold = tc.in
		if got := NewController(nil, opts).Threshold(); got != tc.want {
			t.Fatalf("Threshold(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFailureResetsLoading(t *testing.T) {
	f := &countingFetcher{err: errors.New("offline")}
	c := newTestController(f, animation.NewManualClock(epoch))

	job, ok := c.OnScroll(Telemetry{Offset: 100, MaxExtent: 100}, 3)
	if !ok {
		t.Fatalf("no trigger")
	}
	done := job.Run(context.Background())
	if done.Err == nil {
		t.Fatalf("expected fetch error")
	}
	c.Complete(done)
	if c.State().Loading {
		t.Fatalf("loading not reset after failure")
	}
	if _, ok := c.OnScroll(Telemetry{Offset: 100, MaxExtent: 100}, 3); !ok {
		t.Fatalf("retry not allowed after failure")
	}
}

func TestStaleCompletionIgnored(t *testing.T) {
	c := newTestController(&countingFetcher{}, animation.NewManualClock(epoch))
	job, _ := c.OnScroll(Telemetry{Offset: 100, MaxExtent: 100}, 3)

	if c.Complete(Done{Gen: job.gen + 7}) {
		t.Fatalf("stale completion accepted")
	}
	if !c.State().Loading {
		t.Fatalf("stale completion cleared loading")
	}
	if !c.Complete(job.Run(context.Background())) {
		t.Fatalf("current completion rejected")
	}
	if c.Complete(job.Run(context.Background())) {
		t.Fatalf("duplicate completion accepted")
	}
}

func TestIndicatorRevealAndHide(t *testing.T) {
	clock := animation.NewManualClock(epoch)
	c := newTestController(&countingFetcher{}, clock)

	job, _ := c.OnScroll(Telemetry{Offset: 100, MaxExtent: 100}, 3)
	if c.Indicator() != 1 {
		t.Fatalf("indicator = %v, want shown instantly", c.Indicator())
	}
	c.Complete(job.Run(context.Background()))
	if !c.IndicatorAnimating() {
		t.Fatalf("hide animation not running")
	}
	c.Tick(clock.Advance(150 * time.Millisecond))
	if v := c.Indicator(); v <= 0 || v >= 1 {
		t.Fatalf("indicator mid hide = %v", v)
	}
	c.Tick(clock.Advance(200 * time.Millisecond))
	if c.Indicator() != 0 || c.IndicatorAnimating() {
		t.Fatalf("indicator after hide = %v", c.Indicator())
	}
}

func TestDisposeMakesCallsNoOps(t *testing.T) {
	f := &countingFetcher{}
	c := newTestController(f, animation.NewManualClock(epoch))
	job, _ := c.OnScroll(Telemetry{Offset: 100, MaxExtent: 100}, 3)
	c.Dispose()

	if c.Complete(job.Run(context.Background())) {
		t.Fatalf("completion accepted after dispose")
	}
	if _, ok := c.OnScroll(Telemetry{Offset: 100, MaxExtent: 100}, 3); ok {
		t.Fatalf("trigger after dispose")
	}
	c.SetLastPage(true)
	if c.State().LastPage {
		t.Fatalf("state mutated after dispose")
	}
}
