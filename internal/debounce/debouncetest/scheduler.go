// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package debouncetest provides a manual scheduler for driving debounce
// triggers deterministically in tests.
package debouncetest

import (
	"sync"
	"time"

	"github.com/staranto/reposearch/internal/debounce"
)

// Scheduler records every scheduled func instead of arming a real timer.
// Fire runs whatever is still armed.
type Scheduler struct {
	mu      sync.Mutex
	pending []*timer
	delays  []time.Duration
}

type timer struct {
	s       *Scheduler
	f       func()
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	was := !t.stopped && !t.fired
	t.stopped = true
	return was
}

// AfterFunc satisfies debounce.AfterFunc.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) debounce.Stopper {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &timer{s: s, f: f}
	s.pending = append(s.pending, t)
	s.delays = append(s.delays, d)
	return t
}

// Scheduled returns how many times AfterFunc was invoked.
func (s *Scheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Delays returns the delay passed to each AfterFunc call, in order.
func (s *Scheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// Armed returns how many scheduled funcs are neither stopped nor fired.
func (s *Scheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Fire runs every armed func, as if their delays had all elapsed, and returns
// how many ran.
func (s *Scheduler) Fire() int {
	s.mu.Lock()
	var due []func()
	for _, t := range s.pending {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t.f)
		}
	}
	s.mu.Unlock()

	for _, f := range due {
		f()
	}
	return len(due)
}

// FireStale runs every func, including stopped ones, to mimic timers that
// lost the race with Stop.
func (s *Scheduler) FireStale() {
	s.mu.Lock()
	all := make([]func(), 0, len(s.pending))
	for _, t := range s.pending {
		all = append(all, t.f)
	}
	s.mu.Unlock()

	for _, f := range all {
		f()
	}
}
