// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package debounce

import (
	"sync"
	"time"

	"github.com/apex/log"
)

// Stopper is the part of a pending timer the Trigger needs. *time.Timer
// satisfies it.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d. It mirrors time.AfterFunc so a
// fake scheduler can be swapped in by tests.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Option configures a Trigger.
type Option func(*Trigger)

// WithAfterFunc replaces the timer factory.
func WithAfterFunc(af AfterFunc) Option {
	return func(t *Trigger) {
		if af != nil {
			t.after = af
		}
	}
}

// Trigger coalesces rapid calls into a single trailing invocation of fn once
// delay has elapsed without another call. It owns at most one pending timer.
type Trigger struct {
	mu       sync.Mutex
	fn       func()
	delay    time.Duration
	after    AfterFunc
	timer    Stopper
	gen      uint64
	disposed bool
}

// New returns a Trigger that runs fn after delay of inactivity.
func New(fn func(), delay time.Duration, opts ...Option) *Trigger {
	t := &Trigger{
		fn:    fn,
		delay: delay,
		after: realAfterFunc,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Call cancels any pending invocation and schedules a new one. Calls after
// Dispose are ignored.
func (t *Trigger) Call() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.disposed {
		log.Debug("debounce: call after dispose ignored")
		return
	}

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.timer = t.after(t.delay, func() { t.fire(gen) })
}

// fire runs fn only if gen is still the most recent scheduling. A timer that
// lost the race with Stop finds a newer generation (or a disposed trigger)
// and does nothing.
func (t *Trigger) fire(gen uint64) {
	t.mu.Lock()
	if t.disposed || gen != t.gen || t.timer == nil {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	fn := t.fn
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Cancel drops the pending invocation, if any, and reports whether one was
// pending. The Trigger stays usable.
func (t *Trigger) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopLocked()
}

// Pending reports whether an invocation is scheduled.
func (t *Trigger) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Dispose cancels the pending invocation and makes every later Call a no-op.
// It is safe to call more than once.
func (t *Trigger) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.disposed = true
}

func (t *Trigger) stopLocked() bool {
	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	// Bump the generation so a timer already past Stop cannot fire fn.
	t.gen++
	return true
}
