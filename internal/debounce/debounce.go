// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package debounce collapses bursts of input into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers the most recent value passed to Trigger once no new
// value has arrived for the configured delay. Each Trigger restarts the wait.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	seq     uint64
	armed   bool
	stopped bool
}

// New creates a Debouncer that calls fn with the latest value after delay of quiet.
// fn runs on its own goroutine.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Trigger records v as the latest value and restarts the quiet period.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = v
	d.armed = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
	}
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Cancel drops any pending value without delivering it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Stop cancels any pending value and makes later Trigger calls no-ops.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

// Pending reports whether a value is waiting for the quiet period to elapse.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero T
	d.pending = zero
	d.armed = false
}

// fire ignores timers superseded by a later Trigger whose Stop lost the race.
func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if !d.armed || d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.cancelLocked()
	d.mu.Unlock()

	d.fn(v)
}
