package sched

import (
	"slices"
	"time"
)

// Manual is a virtual-time Scheduler. Nothing runs until Advance is called,
// which makes every delay in the game deterministic under test.
type Manual struct {
	now   time.Time
	seq   int
	queue []*manualTimer
}

// NewManual returns a Manual clock reading start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

type manualTimer struct {
	m   *Manual
	due time.Time
	seq int
	fn  func()
}

func (t *manualTimer) Stop() bool {
	i := slices.Index(t.m.queue, t)
	if i < 0 {
		return false
	}
	t.m.queue = slices.Delete(t.m.queue, i, i+1)
	return true
}

func (m *Manual) Now() time.Time {
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.queue = append(m.queue, t)
	return t
}

// Advance moves the clock forward by d, running every callback that falls due
// in order of due time, then scheduling order. Work scheduled by a callback
// runs in the same call if it is due before the new time.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for {
		next := m.next()
		if next == nil || next.due.After(end) {
			break
		}
		next.Stop()
		m.now = next.due
		next.fn()
	}
	m.now = end
}

// Pending is the number of callbacks waiting to run.
func (m *Manual) Pending() int {
	return len(m.queue)
}

func (m *Manual) next() *manualTimer {
	if len(m.queue) == 0 {
		return nil
	}
	return slices.MinFunc(m.queue, func(a, b *manualTimer) int {
		if c := a.due.Compare(b.due); c != 0 {
			return c
		}
		return a.seq - b.seq
	})
}
