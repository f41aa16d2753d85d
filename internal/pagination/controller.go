// Package pagination decides when the list has scrolled far enough toward
// its oldest end to request another page, and keeps at most one request in
// flight.
package pagination

import (
	"context"
	"time"

	"chatlist/internal/animation"
	"chatlist/internal/logger"
)

// DefaultThreshold is the fraction of the scroll extent past which the next
// page is requested.
const DefaultThreshold = 0.75

// Telemetry is one scroll observation. Offset grows toward the oldest item.
type Telemetry struct {
	Offset    float64
	Extent    float64
	MaxExtent float64
}

// State is the observable pagination state.
type State struct {
	Loading  bool
	LastPage bool
}

// Fetcher loads the next page of older items.
type Fetcher interface {
	FetchNextPage(ctx context.Context) error
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) error

func (f FetcherFunc) FetchNextPage(ctx context.Context) error { return f(ctx) }

// Options configure a Controller.
type Options struct {
	// Threshold is clamped to [0,1].
	Threshold float64
	LastPage  bool
	// Reveal and Hide are the loading indicator durations.
	Reveal time.Duration
	Hide   time.Duration
	Curve  animation.Curve
	Clock  animation.Clock
}

// DefaultOptions returns the stock threshold and indicator timing.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Hide:      300 * time.Millisecond,
		Curve:     animation.EaseOut,
	}
}

// Job is a single page request handed out by OnScroll. Run it off the UI
// loop and feed the result back through Complete.
type Job struct {
	gen     uint64
	fetcher Fetcher
}

// Done is the outcome of a Job.
type Done struct {
	Gen uint64
	Err error
}

// Run invokes the fetcher.
func (j Job) Run(ctx context.Context) Done {
	if j.fetcher == nil {
		return Done{Gen: j.gen}
	}
	return Done{Gen: j.gen, Err: j.fetcher.FetchNextPage(ctx)}
}

// Controller gates page requests on scroll position. It is not safe for
// concurrent use; call it from the goroutine that owns the list.
type Controller struct {
	fetcher   Fetcher
	threshold float64
	clock     animation.Clock
	state     State
	gen       uint64
	indicator *animation.Controller
	reveal    time.Duration
	hide      time.Duration
	disposed  bool
	log       *logger.LogEntry
}

// NewController creates a controller that requests pages from fetcher.
func NewController(fetcher Fetcher, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = animation.SystemClock{}
	}
	return &Controller{
		fetcher:   fetcher,
		threshold: clampThreshold(opts.Threshold),
		clock:     opts.Clock,
		state:     State{LastPage: opts.LastPage},
		indicator: animation.NewController(opts.Reveal, opts.Curve),
		reveal:    opts.Reveal,
		hide:      opts.Hide,
		log:       logger.Named("pagination"),
	}
}

func clampThreshold(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Threshold returns the effective, clamped threshold.
func (c *Controller) Threshold() float64 { return c.threshold }

// State returns a snapshot of the current state.
func (c *Controller) State() State { return c.state }

// SetLastPage records whether the oldest page has been reached.
func (c *Controller) SetLastPage(last bool) {
	if c.disposed {
		return
	}
	c.state.LastPage = last
}

// OnScroll evaluates one scroll observation. It returns a Job when a page
// request should start; the controller is then Loading until Complete.
func (c *Controller) OnScroll(t Telemetry, itemCount int) (Job, bool) {
	if c.disposed || c.state.LastPage || c.state.Loading || itemCount <= 0 {
		return Job{}, false
	}
	if t.Offset < t.MaxExtent*c.threshold {
		return Job{}, false
	}
	c.state.Loading = true
	c.gen++
	c.indicator.Duration = c.reveal
	c.indicator.Forward(c.clock.Now())
	logger.ListLog.PageRequested(t.Offset, t.MaxExtent, itemCount)
	return Job{gen: c.gen, fetcher: c.fetcher}, true
}

// Complete finishes the in-flight request. Failures are logged and
// swallowed. Results from stale generations or after Dispose are ignored;
// the return value reports whether d was accepted.
func (c *Controller) Complete(d Done) bool {
	if c.disposed || !c.state.Loading || d.Gen != c.gen {
		c.log.WithField("gen", d.Gen).Debug("ignored stale page completion")
		return false
	}
	c.state.Loading = false
	c.indicator.Duration = c.hide
	c.indicator.Reverse(c.clock.Now())
	logger.ListLog.PageCompleted(d.Err)
	if d.Err != nil {
		c.log.WithError(d.Err).Warn("page fetch failed")
	}
	return true
}

// Tick advances the loading indicator animation.
func (c *Controller) Tick(now time.Time) bool {
	if c.disposed {
		return false
	}
	return c.indicator.Tick(now)
}

// Indicator returns the loading indicator visibility in [0,1].
func (c *Controller) Indicator() float64 {
	if c.disposed {
		return 0
	}
	return c.indicator.Value()
}

// IndicatorAnimating reports whether the indicator is mid-transition.
func (c *Controller) IndicatorAnimating() bool {
	return !c.disposed && c.indicator.IsAnimating()
}

// Dispose turns every later call into a no-op.
func (c *Controller) Dispose() {
	c.disposed = true
	c.state.Loading = false
}
