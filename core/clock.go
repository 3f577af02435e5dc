package core

import (
	"time"

	"github.com/signalsfoundry/bentpipe-constellation-sim/timectrl"
)

// Clock drives the simulation's monotonic discrete time, advancing by a
// fixed step with no suspension on the hot path: the run loop in
// cmd/bent_pipe calls Advance once per iteration and every component sees
// the same now. This
// replaces timectrl.TimeController for stepping — that type's
// ticker-driven, listener-fanout design suits the teacher's live network
// demo, not a simulator that must run a fixed number of steps as fast as
// possible and reproduce identical logs across runs.
type Clock struct {
	now  time.Time
	step time.Duration
	mode timectrl.Mode

	pacer *time.Ticker
}

// NewClock constructs a Clock starting at start, advancing by step on
// every call to Advance. In timectrl.RealTime mode, Advance additionally
// blocks until a step-duration wall-clock ticker fires, pacing a run for
// interactive/demo use; in timectrl.Accelerated mode it never blocks.
func NewClock(start time.Time, step time.Duration, mode timectrl.Mode) *Clock {
	c := &Clock{now: start, step: step, mode: mode}
	if mode == timectrl.RealTime {
		c.pacer = time.NewTicker(step)
	}
	return c
}

// Now returns the current simulation time.
func (c *Clock) Now() time.Time { return c.now }

// Step returns the fixed per-iteration time advance.
func (c *Clock) Step() time.Duration { return c.step }

// Advance moves the clock forward by one step and returns the new time.
// Pacing (RealTime mode) never changes the amount of simulated time that
// elapses — only how long Advance takes to return.
func (c *Clock) Advance() time.Time {
	if c.pacer != nil {
		<-c.pacer.C
	}
	c.now = c.now.Add(c.step)
	return c.now
}

// Stop releases the pacing ticker, if any. Safe to call on a clock with
// no pacer.
func (c *Clock) Stop() {
	if c.pacer != nil {
		c.pacer.Stop()
	}
}
