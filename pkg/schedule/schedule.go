// Package schedule provides cancellable deferred-task handles for the
// viewport engine. The browser gives us setTimeout and
// requestAnimationFrame; natively we fall back to real timers, and tests
// use ManualTimers to step time deterministically. The resource-lifetime
// rule is the same everywhere: re-scheduling or teardown cancels any
// outstanding handle before creating a new one.
package schedule

import (
	"sync"
	"time"
)

// Timers abstracts one-shot timeouts and animation frames.
type Timers interface {
	// SetTimeout runs fn after d. The returned cancel is safe to call
	// more than once and after the timer fired.
	SetTimeout(d time.Duration, fn func()) (cancel func())
	// RequestFrame runs fn at the next frame boundary.
	RequestFrame(fn func()) (cancel func())
}

// Coalescer collapses a burst of triggers into exactly one callback:
// each Trigger cancels any pending timeout/frame and restarts the
// debounce; when the debounce fires it schedules a single frame, and the
// frame runs fn. Resize storms funnel through this so layout is measured
// at most once per settled burst.
type Coalescer struct {
	mu     sync.Mutex
	timers Timers
	delay  time.Duration
	fn     func()

	cancelTimeout func()
	cancelFrame   func()
}

// NewCoalescer creates a coalescer that runs fn one frame after the last
// trigger in a burst, with delay of debounce in between.
func NewCoalescer(timers Timers, delay time.Duration, fn func()) *Coalescer {
	return &Coalescer{timers: timers, delay: delay, fn: fn}
}

// Trigger (re)starts the debounce, cancelling anything in flight.
func (c *Coalescer) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.cancelTimeout = c.timers.SetTimeout(c.delay, func() {
		c.mu.Lock()
		c.cancelTimeout = nil
		c.cancelFrame = c.timers.RequestFrame(func() {
			c.mu.Lock()
			c.cancelFrame = nil
			c.mu.Unlock()
			c.fn()
		})
		c.mu.Unlock()
	})
}

// Cancel drops any pending timeout or frame.
func (c *Coalescer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *Coalescer) cancelLocked() {
	if c.cancelTimeout != nil {
		c.cancelTimeout()
		c.cancelTimeout = nil
	}
	if c.cancelFrame != nil {
		c.cancelFrame()
		c.cancelFrame = nil
	}
}

// StdTimers implements Timers on the standard runtime: real timers for
// timeouts and a ~16ms timer standing in for the frame boundary. Default
// picks between this and JSTimers per build target.
type StdTimers struct{}

const stdFrameInterval = 16 * time.Millisecond

// SetTimeout implements Timers.
func (StdTimers) SetTimeout(d time.Duration, fn func()) (cancel func()) {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// RequestFrame implements Timers.
func (StdTimers) RequestFrame(fn func()) (cancel func()) {
	t := time.AfterFunc(stdFrameInterval, fn)
	return func() { t.Stop() }
}
