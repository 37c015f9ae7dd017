package throttle

import (
	"sort"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already ran or was stopped.
	Stop() bool
}

// Clock is the time source a Dispatcher schedules deferred deliveries on.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// LoopClock runs deferred callbacks on the caller's event loop: nothing
// fires until RunDue is called, so callbacks never race with input handling.
// The UI calls RunDue once per frame.
type LoopClock struct {
	now    func() time.Time
	timers []*loopTimer
	seq    uint64
}

type loopTimer struct {
	clock *LoopClock
	due   time.Time
	seq   uint64
	f     func()
	done  bool
}

// NewLoopClock returns a LoopClock reading time from now, or time.Now when
// now is nil.
func NewLoopClock(now func() time.Time) *LoopClock {
	if now == nil {
		now = time.Now
	}
	return &LoopClock{now: now}
}

func (c *LoopClock) Now() time.Time { return c.now() }

func (c *LoopClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &loopTimer{clock: c, due: c.now().Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Scheduled returns how many callbacks are waiting.
func (c *LoopClock) Scheduled() int { return len(c.timers) }

// RunDue runs every callback whose due time has passed, earliest first, and
// returns how many ran. Callbacks scheduled while running are picked up if
// they are already due.
func (c *LoopClock) RunDue() int {
	ran := 0
	for {
		now := c.now()
		due := c.timers[:0:0]
		for _, t := range c.timers {
			if !t.due.After(now) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			return ran
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].due.Equal(due[j].due) {
				return due[i].seq < due[j].seq
			}
			return due[i].due.Before(due[j].due)
		})
		for _, t := range due {
			if t.done {
				continue
			}
			t.remove()
			ran++
			t.f()
		}
	}
}

func (t *loopTimer) remove() {
	t.done = true
	timers := t.clock.timers
	for i, o := range timers {
		if o == t {
			t.clock.timers = append(timers[:i], timers[i+1:]...)
			return
		}
	}
}

func (t *loopTimer) Stop() bool {
	if t.done {
		return false
	}
	t.remove()
	return true
}
