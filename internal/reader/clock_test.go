package reader

import (
	"sync"
	"time"
)

// fakeClock fires callbacks only when Advance moves time past their deadline.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	c    *fakeClock
	at   time.Duration
	f    func()
	done bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{}
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: c, at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *fakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// Next returns the wait until the earliest pending timer.
func (c *fakeClock) Next() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.earliest(-1)
	if t == nil {
		return 0, false
	}
	return t.at - c.now, true
}

// Advance moves time forward by d, running every callback that falls due in
// deadline order. Callbacks run without the clock's lock held.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		t := c.earliest(target)
		if t == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = t.at
		t.done = true
		c.mu.Unlock()
		t.f()
	}
}

// earliest returns the first pending timer due at or before limit, or any
// pending timer when limit is negative.
func (c *fakeClock) earliest(limit time.Duration) *fakeTimer {
	var first *fakeTimer
	for _, t := range c.timers {
		if t.done || (limit >= 0 && t.at > limit) {
			continue
		}
		if first == nil || t.at < first.at {
			first = t
		}
	}
	return first
}
