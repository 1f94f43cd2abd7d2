// Package sched provides the cancellable delayed-work capability the game core
// runs on. Callbacks are always executed on the owner's event loop, never
// concurrently with each other.
package sched

import (
	"sync/atomic"
	"time"
)

// Timer is a handle to scheduled work.
type Timer interface {
	// Stop cancels the work. It reports whether the call prevented it from running.
	Stop() bool
}

// Scheduler runs functions after a delay and tells the time.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop is a real-time Scheduler. Timers fire on runtime goroutines but only
// hand the callback to dispatch, which must queue it onto the single event
// loop that owns the game state (for example tea.Program.Send).
type Loop struct {
	dispatch func(func())
}

// NewLoop returns a Loop delivering callbacks through dispatch.
func NewLoop(dispatch func(func())) *Loop {
	return &Loop{dispatch: dispatch}
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.dispatch(func() {
			// Stop may have been called after the timer fired but before the
			// callback reached the loop.
			if t.stopped.Swap(true) {
				return
			}
			fn()
		})
	})
	return t
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.timer.Stop()
	return true
}
