package controller

import (
	"sort"
	"time"
)

// ManualClock is a Clock that only moves when told to. Timers fire in due
// order from Advance, on the caller's goroutine.
type ManualClock struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.seq++
	t := &manualTimer{at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that falls due,
// including the ones scheduled by fired callbacks.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		t := c.next(target)
		if t == nil {
			break
		}
		c.now = t.at
		t.stopped = true
		t.f()
	}
	c.now = target
}

func (c *ManualClock) next(limit time.Duration) *manualTimer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.Slice(c.timers, func(i, j int) bool {
		if c.timers[i].at != c.timers[j].at {
			return c.timers[i].at < c.timers[j].at
		}
		return c.timers[i].seq < c.timers[j].seq
	})
	if len(c.timers) == 0 || c.timers[0].at > limit {
		return nil
	}
	return c.timers[0]
}

// Pending counts the timers not yet fired or stopped.
func (c *ManualClock) Pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
