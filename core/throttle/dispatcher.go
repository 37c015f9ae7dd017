// Package throttle bounds how often a stream of proposed values reaches its
// consumer while guaranteeing the latest value is never lost.
package throttle

import "time"

// Dispatcher delivers proposed values to a consumer at most once per
// interval. Undelivered proposals are overwritten, never queued; Flush
// delivers whatever is still pending.
//
// A new Dispatcher behaves as if it had just delivered, so a burst of
// proposals shorter than the interval that starts right after construction
// (or after any delivery) reaches the consumer exactly once, on Flush.
//
// Dispatcher is not safe for concurrent use; drive it from one event loop.
type Dispatcher[T any] struct {
	interval time.Duration
	clock    Clock
	deliver  func(T)

	last       time.Time
	pending    T
	hasPending bool
	timer      Timer

	deliveries int
}

func New[T any](interval time.Duration, clock Clock, deliver func(T)) *Dispatcher[T] {
	if clock == nil {
		clock = NewLoopClock(nil)
	}
	if interval < 0 {
		interval = 0
	}
	return &Dispatcher[T]{
		interval: interval,
		clock:    clock,
		deliver:  deliver,
		last:     clock.Now(),
	}
}

func (d *Dispatcher[T]) Interval() time.Duration { return d.interval }

// Deliveries counts consumer invocations so far.
func (d *Dispatcher[T]) Deliveries() int { return d.deliveries }

// Pending returns the value waiting for delivery, if any.
func (d *Dispatcher[T]) Pending() (T, bool) { return d.pending, d.hasPending }

// Propose hands v to the consumer now if at least the interval has passed
// since the last delivery. Otherwise v replaces any pending value and a
// delivery is scheduled for when the interval runs out.
func (d *Dispatcher[T]) Propose(v T) {
	now := d.clock.Now()
	elapsed := now.Sub(d.last)
	if elapsed >= d.interval {
		d.stopTimer()
		d.clearPending()
		d.emit(v, now)
		return
	}
	d.pending, d.hasPending = v, true
	if d.timer == nil {
		d.timer = d.clock.AfterFunc(d.interval-elapsed, d.fire)
	}
}

// Flush cancels the scheduled delivery and delivers the pending value, if
// there is one, immediately.
func (d *Dispatcher[T]) Flush() {
	d.stopTimer()
	if !d.hasPending {
		return
	}
	v := d.pending
	d.clearPending()
	d.emit(v, d.clock.Now())
}

// Cancel drops the pending value and the scheduled delivery without
// delivering anything.
func (d *Dispatcher[T]) Cancel() {
	d.stopTimer()
	d.clearPending()
}

func (d *Dispatcher[T]) fire() {
	d.timer = nil
	if !d.hasPending {
		return
	}
	v := d.pending
	d.clearPending()
	d.emit(v, d.clock.Now())
}

func (d *Dispatcher[T]) emit(v T, now time.Time) {
	d.last = now
	d.deliveries++
	if d.deliver != nil {
		d.deliver(v)
	}
}

func (d *Dispatcher[T]) stopTimer() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Dispatcher[T]) clearPending() {
	var zero T
	d.pending, d.hasPending = zero, false
}
