// Package timer holds the two clocks of a session: the stopwatch measuring
// play time and the preview countdown.
package timer

import (
	"time"

	"go-match/internal/sched"
)

// Stopwatch measures whole elapsed seconds from Start, sampled every interval.
// The sampled value never decreases and is frozen by Stop.
type Stopwatch struct {
	sched    sched.Scheduler
	interval time.Duration
	OnTick   func(elapsed int)

	start   time.Time
	seconds int
	running bool
	gen     int
	tick    sched.Timer
}

// NewStopwatch returns a stopped stopwatch reading zero.
func NewStopwatch(s sched.Scheduler, interval time.Duration) *Stopwatch {
	return &Stopwatch{sched: s, interval: interval}
}

// Start begins measuring. It is a no-op while already running.
func (w *Stopwatch) Start() {
	if w.running {
		return
	}
	w.running = true
	w.gen++
	w.start = w.sched.Now()
	w.seconds = 0
	w.schedule(w.gen)
}

func (w *Stopwatch) schedule(gen int) {
	w.tick = w.sched.AfterFunc(w.interval, func() {
		if gen != w.gen || !w.running {
			return
		}
		w.sample()
		if w.OnTick != nil {
			w.OnTick(w.seconds)
		}
		w.schedule(gen)
	})
}

func (w *Stopwatch) sample() {
	secs := int(w.sched.Now().Sub(w.start) / time.Second)
	if secs > w.seconds {
		w.seconds = secs
	}
}

// Stop takes a final sample and freezes the value.
func (w *Stopwatch) Stop() {
	if !w.running {
		return
	}
	w.sample()
	w.halt()
}

// Reset cancels any pending tick and zeroes the value.
func (w *Stopwatch) Reset() {
	w.halt()
	w.seconds = 0
}

func (w *Stopwatch) halt() {
	w.running = false
	w.gen++
	if w.tick != nil {
		w.tick.Stop()
		w.tick = nil
	}
}

// Elapsed is the last sampled value in whole seconds.
func (w *Stopwatch) Elapsed() int {
	return w.seconds
}

// Running reports whether the stopwatch is measuring.
func (w *Stopwatch) Running() bool {
	return w.running
}

// Countdown counts down once per interval and fires OnDone exactly once when
// the remaining count reaches zero.
type Countdown struct {
	sched     sched.Scheduler
	interval  time.Duration
	remaining int
	done      bool
	tick      sched.Timer

	OnTick func(remaining int)
	OnDone func()
}

// NewCountdown returns a countdown from seconds, not yet started.
func NewCountdown(s sched.Scheduler, interval time.Duration, seconds int) *Countdown {
	return &Countdown{sched: s, interval: interval, remaining: seconds}
}

// Start schedules the first tick.
func (c *Countdown) Start() {
	if c.done || c.tick != nil {
		return
	}
	c.schedule()
}

func (c *Countdown) schedule() {
	c.tick = c.sched.AfterFunc(c.interval, func() {
		if c.done {
			return
		}
		c.remaining--
		if c.OnTick != nil {
			c.OnTick(c.remaining)
		}
		if c.remaining <= 0 {
			c.done = true
			c.tick = nil
			if c.OnDone != nil {
				c.OnDone()
			}
			return
		}
		c.schedule()
	})
}

// Stop cancels the countdown; OnDone will not fire.
func (c *Countdown) Stop() {
	c.done = true
	if c.tick != nil {
		c.tick.Stop()
		c.tick = nil
	}
}

// Remaining is the current count.
func (c *Countdown) Remaining() int {
	return c.remaining
}
